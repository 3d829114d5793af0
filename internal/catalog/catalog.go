package catalog

import (
	"context"
	"sort"
	"sync"

	"ollamarouter/internal/core"
	"ollamarouter/internal/ollama"
)

// Catalog mirrors the set of models known to the Ollama backend. Entries
// are replaced wholesale on Refresh; performance scores and last-used
// stamps are carried over by identifier so a refresh never discards
// history. All shared state sits behind one RWMutex: mutation is
// replace/update of map entries keyed by model name, and backend probes
// run outside the lock so loads for different models do not interfere.
type Catalog struct {
	mu     sync.RWMutex
	models map[string]*core.ModelInfo
	active map[string]bool

	client *ollama.Client
	clock  core.Clock
	logger core.Logger
}

// NewCatalog creates an empty catalog bound to a backend client.
func NewCatalog(client *ollama.Client, clock core.Clock, logger core.Logger) *Catalog {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &Catalog{
		models: make(map[string]*core.ModelInfo),
		active: make(map[string]bool),
		client: client,
		clock:  clock,
		logger: logger,
	}
}

// Refresh re-syncs the catalog from the backend's /api/tags. Fail-soft:
// on backend unreachability or a non-2xx response the previous catalog is
// returned unchanged together with the error, never a partial overwrite.
func (c *Catalog) Refresh(ctx context.Context) (map[string]core.ModelInfo, error) {
	tagsCtx, cancel := context.WithTimeout(ctx, core.RefreshTimeout)
	defer cancel()

	tags, err := c.client.Tags(tagsCtx)
	if err != nil {
		c.logger.Error("Error refreshing models: %v", err)
		return c.Snapshot(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := make(map[string]*core.ModelInfo, len(tags.Models))
	for _, entry := range tags.Models {
		info := &core.ModelInfo{
			Name:             entry.Name,
			Size:             entry.Size,
			ModifiedAt:       entry.ModifiedAt,
			Digest:           entry.Digest,
			Loaded:           c.active[entry.Name],
			PerformanceScore: core.NeutralPerformanceScore,
		}

		// Score and last-used survive the wholesale replace.
		if prev, exists := c.models[entry.Name]; exists {
			info.PerformanceScore = prev.PerformanceScore
			info.LastUsed = prev.LastUsed
		}

		current[entry.Name] = info
	}
	c.models = current

	// Drop active marks for models the backend no longer reports.
	for name := range c.active {
		if _, exists := current[name]; !exists {
			delete(c.active, name)
		}
	}

	c.logger.Info("Refreshed %d models from Ollama", len(current))
	return c.snapshotLocked(), nil
}

// Load issues a lightweight generation probe so the backend materializes
// the model in memory. On success the model is marked loaded and its
// last-used stamp updated; on failure state is left unchanged. Concurrent
// loads for the same identifier race harmlessly: last writer wins on the
// timestamp, the loaded flag converges to the same value.
func (c *Catalog) Load(ctx context.Context, name string) bool {
	c.mu.RLock()
	_, known := c.models[name]
	c.mu.RUnlock()

	if !known {
		c.logger.Warn("Model %s not available", name)
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, core.LoadProbeTimeout)
	defer cancel()

	_, err := c.client.Generate(probeCtx, &core.OllamaGenerateRequest{
		Model:  name,
		Prompt: core.LoadProbePrompt,
	})
	if err != nil {
		c.logger.Error("Error loading model %s: %v", name, err)
		return false
	}

	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	// The catalog may have been replaced while the probe ran.
	info, exists := c.models[name]
	if !exists {
		return false
	}
	info.Loaded = true
	info.LastUsed = &now
	c.active[name] = true

	c.logger.Info("Successfully loaded model: %s", name)
	return true
}

// Get returns a copy of the model's current record.
func (c *Catalog) Get(name string) (core.ModelInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, exists := c.models[name]
	if !exists {
		return core.ModelInfo{}, false
	}
	return *info, true
}

// IsLoaded reports whether the model is present and marked loaded.
func (c *Catalog) IsLoaded(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, exists := c.models[name]
	return exists && info.Loaded
}

// Snapshot returns a copy of the full catalog.
func (c *Catalog) Snapshot() map[string]core.ModelInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Catalog) snapshotLocked() map[string]core.ModelInfo {
	snapshot := make(map[string]core.ModelInfo, len(c.models))
	for name, info := range c.models {
		snapshot[name] = *info
	}
	return snapshot
}

// LoadedNames returns the loaded model names in sorted order. The sort
// keeps iteration deterministic for selection fallbacks.
func (c *Catalog) LoadedNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.active))
	for name := range c.active {
		if info, exists := c.models[name]; exists && info.Loaded {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// TouchLastUsed stamps the model's last-used time.
func (c *Catalog) TouchLastUsed(name string) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if info, exists := c.models[name]; exists {
		info.LastUsed = &now
	}
}

// UpdateScore sets the model's performance score.
func (c *Catalog) UpdateScore(name string, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if info, exists := c.models[name]; exists {
		info.PerformanceScore = score
	}
}

// Len returns the number of models currently known.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.models)
}
