package config

import (
	"os"
	"path/filepath"
	"testing"

	"ollamarouter/internal/core"
)

func TestLoadServerConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CLIENT_API_KEYS", "key1, key2")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")

	cfg, err := LoadServerConfigFromEnv(&core.NopLogger{})
	if err != nil {
		t.Fatalf("LoadServerConfigFromEnv: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if len(cfg.ClientAPIKeys) != 2 || cfg.ClientAPIKeys[0] != "key1" {
		t.Errorf("ClientAPIKeys = %v", cfg.ClientAPIKeys)
	}
	if cfg.OllamaBaseURL != "http://ollama:11434" {
		t.Errorf("OllamaBaseURL = %q", cfg.OllamaBaseURL)
	}
}

func TestLoadServerConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CLIENT_API_KEYS", "")
	t.Setenv("OLLAMA_BASE_URL", "")

	cfg, err := LoadServerConfigFromEnv(&core.NopLogger{})
	if err != nil {
		t.Fatalf("LoadServerConfigFromEnv: %v", err)
	}

	if cfg.Port != core.DefaultPort {
		t.Errorf("Port = %q, want default %q", cfg.Port, core.DefaultPort)
	}
	if len(cfg.ClientAPIKeys) != 0 {
		t.Errorf("ClientAPIKeys = %v, want empty", cfg.ClientAPIKeys)
	}
	if cfg.TasksConfigPath != core.DefaultTasksConfigPath {
		t.Errorf("TasksConfigPath = %q", cfg.TasksConfigPath)
	}
}

func TestLoadRoutingConfigMissingFile(t *testing.T) {
	cfg, err := LoadRoutingConfig(filepath.Join(t.TempDir(), "absent.json"), &core.NopLogger{})
	if err != nil {
		t.Fatalf("LoadRoutingConfig: %v", err)
	}

	if len(cfg.Tasks) != 7 {
		t.Errorf("Tasks = %d, want 7 built-in definitions", len(cfg.Tasks))
	}
	if len(cfg.Capabilities) == 0 {
		t.Error("expected built-in capability table")
	}
	if len(cfg.DefaultChain) == 0 || cfg.DefaultChain[0] != "llama3" {
		t.Errorf("DefaultChain = %v", cfg.DefaultChain)
	}
}

func TestLoadRoutingConfigOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	body := `{
		"tasks": [{
			"name": "summarize",
			"required_capabilities": ["text_generation"],
			"preferred_models": ["mistral"]
		}],
		"default_chain": ["mistral", "phi3"]
	}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRoutingConfig(path, &core.NopLogger{})
	if err != nil {
		t.Fatalf("LoadRoutingConfig: %v", err)
	}

	if len(cfg.Tasks) != 1 || cfg.Tasks[0].Name != "summarize" {
		t.Errorf("Tasks = %+v", cfg.Tasks)
	}
	if cfg.DefaultChain[0] != "mistral" {
		t.Errorf("DefaultChain = %v", cfg.DefaultChain)
	}
	// Capabilities section absent: built-in table stands.
	if len(cfg.Capabilities) == 0 {
		t.Error("expected built-in capability table to survive partial override")
	}
}

func TestLoadRoutingConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadRoutingConfig(path, &core.NopLogger{}); err == nil {
		t.Error("expected parse error for malformed config")
	}
}

func TestDefaultTablesAreConsistent(t *testing.T) {
	table := make(map[string]core.CapabilityEntry)
	for _, entry := range DefaultCapabilityTable() {
		if entry.SizeTier == "" {
			t.Errorf("capability entry %s has no size tier", entry.Name)
		}
		table[entry.Name] = entry
	}

	// Every model a task names must have a capability entry, or the
	// optimizer could never resolve its size tier.
	for _, task := range DefaultTaskDefinitions() {
		for _, name := range append(task.PreferredModels, task.FallbackModels...) {
			if _, exists := table[name]; !exists {
				t.Errorf("task %s references %s, which has no capability entry", task.Name, name)
			}
		}
	}

	for _, name := range DefaultModelChain() {
		if _, exists := table[name]; !exists {
			t.Errorf("default chain references %s, which has no capability entry", name)
		}
	}

	// Models outside every task list are still present for the capability
	// scan to find.
	for _, name := range []string{"openchat", "dolphin-mistral"} {
		if _, exists := table[name]; !exists {
			t.Errorf("expected a capability entry for %s", name)
		}
	}
}
