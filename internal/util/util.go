package util

import (
	"os"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// MarshalJSON wraps Sonic for performance
func MarshalJSON(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// UnmarshalJSON wraps Sonic for performance
func UnmarshalJSON(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// EstimateTokens approximates the token count of generated text as its
// whitespace-delimited word count. This is deliberately not a tokenizer:
// the same approximation is applied everywhere token volume is reported.
func EstimateTokens(text string) int {
	return len(strings.Fields(text))
}

// ParseEnvList splits a comma-separated env value into trimmed entries.
func ParseEnvList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// EnvOrDefault returns the env value or a default when unset/empty.
func EnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// EnvIntOrDefault returns the env value parsed as int, or a default when
// unset or unparsable.
func EnvIntOrDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
