package config

import (
	"os"
	"time"

	"ollamarouter/internal/core"
	"ollamarouter/internal/ollama"
	"ollamarouter/internal/util"

	"github.com/bytedance/sonic"
)

// ServerConfig server configuration
type ServerConfig struct {
	Port               string
	GinMode            string
	ClientAPIKeys      []string
	OllamaBaseURL      string
	TasksConfigPath    string
	Routing            RoutingConfig
	HTTPClientSettings HTTPClientSettings
	Storage            core.StorageInterface
	Logger             core.Logger
}

// HTTPClientSettings HTTP client configuration
type HTTPClientSettings struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	RequestTimeout      time.Duration
}

// DefaultHTTPClientSettings default HTTP client settings
func DefaultHTTPClientSettings() HTTPClientSettings {
	return HTTPClientSettings{
		MaxIdleConns:        core.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: core.HTTPMaxIdleConnsPerHost,
		MaxConnsPerHost:     core.HTTPMaxConnsPerHost,
		IdleConnTimeout:     core.HTTPIdleConnTimeout,
		TLSHandshakeTimeout: core.HTTPTLSHandshakeTimeout,
		RequestTimeout:      core.HTTPRequestTimeout,
	}
}

// RoutingConfig is the routing table: task definitions, the capability
// table, and the default model chain.
type RoutingConfig struct {
	Tasks        []core.TaskDefinition  `json:"tasks"`
	Capabilities []core.CapabilityEntry `json:"capabilities"`
	DefaultChain []string               `json:"default_chain"`
}

// LoadServerConfigFromEnv loads server config from environment variables
func LoadServerConfigFromEnv(logger core.Logger) (ServerConfig, error) {
	clientAPIKeys := util.ParseEnvList(os.Getenv("CLIENT_API_KEYS"))
	if len(clientAPIKeys) == 0 {
		logger.Warn("CLIENT_API_KEYS is empty, authentication disabled")
	} else {
		logger.Info("Loaded %d client API keys", len(clientAPIKeys))
	}

	config := ServerConfig{
		Port:               util.EnvOrDefault("PORT", core.DefaultPort),
		GinMode:            util.EnvOrDefault("GIN_MODE", core.DefaultGinMode),
		ClientAPIKeys:      clientAPIKeys,
		OllamaBaseURL:      util.EnvOrDefault("OLLAMA_BASE_URL", ollama.DefaultBaseURL),
		TasksConfigPath:    util.EnvOrDefault("TASKS_CONFIG_PATH", core.DefaultTasksConfigPath),
		HTTPClientSettings: DefaultHTTPClientSettings(),
	}

	return config, nil
}

// LoadRoutingConfig loads the routing table from a JSON file. Missing
// file or missing sections fall back to the built-in tables, so a bare
// deployment routes sensibly with no config at all.
func LoadRoutingConfig(path string, logger core.Logger) (RoutingConfig, error) {
	config := RoutingConfig{
		Tasks:        DefaultTaskDefinitions(),
		Capabilities: DefaultCapabilityTable(),
		DefaultChain: DefaultModelChain(),
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path from config, not user input
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("No routing config at %s, using built-in tables", path)
			return config, nil
		}
		return config, core.NewAppErrorf(core.ErrCodeConfigLoadFailed, err, "failed to read %s", path)
	}

	var loaded RoutingConfig
	if err := sonic.Unmarshal(data, &loaded); err != nil {
		return config, core.NewAppErrorf(core.ErrCodeConfigLoadFailed, err, "failed to parse %s", path)
	}

	for _, task := range loaded.Tasks {
		if task.Name == "" {
			return config, core.ErrInvalidConfig("tasks", "task definition with empty name")
		}
	}

	if len(loaded.Tasks) > 0 {
		config.Tasks = loaded.Tasks
	}
	if len(loaded.Capabilities) > 0 {
		config.Capabilities = loaded.Capabilities
	}
	if len(loaded.DefaultChain) > 0 {
		config.DefaultChain = loaded.DefaultChain
	}

	logger.Info("Loaded routing config: %d tasks, %d capability entries", len(config.Tasks), len(config.Capabilities))
	return config, nil
}
