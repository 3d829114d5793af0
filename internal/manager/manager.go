package manager

import (
	"context"

	"ollamarouter/internal/catalog"
	"ollamarouter/internal/core"
	"ollamarouter/internal/ledger"
	"ollamarouter/internal/ollama"
	"ollamarouter/internal/route"
)

// Manager is the facade the HTTP layer talks to. It owns the catalog,
// the selector, the ledger, and the invoker, and coordinates the refresh
// debounce so bursts of status requests do not hammer the backend.
type Manager struct {
	catalog  *catalog.Catalog
	selector *route.Selector
	ledger   *ledger.Ledger
	invoker  *Invoker
	cache    core.Cache
	metrics  core.MetricsCollector
	logger   core.Logger
}

// ManagerConfig wires the manager's collaborators.
type ManagerConfig struct {
	Client       *ollama.Client
	Cache        core.Cache
	Storage      core.StorageInterface
	Tasks        []core.TaskDefinition
	Capabilities []core.CapabilityEntry
	DefaultChain []string
	Clock        core.Clock
	Metrics      core.MetricsCollector
	Logger       core.Logger
}

// NewManager builds the full pipeline: catalog, ledger (with history
// restored from storage), selector, and invoker.
func NewManager(config ManagerConfig) *Manager {
	if config.Clock == nil {
		config.Clock = core.SystemClock{}
	}
	if config.Logger == nil {
		config.Logger = &core.NopLogger{}
	}
	if config.Metrics == nil {
		config.Metrics = &core.NopMetrics{}
	}

	cat := catalog.NewCatalog(config.Client, config.Clock, config.Logger)

	led := ledger.NewLedger(ledger.LedgerConfig{
		Storage: config.Storage,
		Clock:   config.Clock,
		Logger:  config.Logger,
	})
	if err := led.LoadHistory(); err != nil {
		config.Logger.Warn("Could not load performance history: %v", err)
	}

	selector := route.NewSelector(route.SelectorConfig{
		Catalog:      cat,
		Tasks:        config.Tasks,
		Capabilities: config.Capabilities,
		DefaultChain: config.DefaultChain,
		Clock:        config.Clock,
		Logger:       config.Logger,
	})

	return &Manager{
		catalog:  cat,
		selector: selector,
		ledger:   led,
		invoker:  NewInvoker(config.Client, cat, led, config.Clock, config.Logger),
		cache:    config.Cache,
		metrics:  config.Metrics,
		logger:   config.Logger,
	}
}

// Refresh forces a catalog re-sync. Fail-soft: on backend failure the
// previous catalog stands and Refreshed reports false.
func (m *Manager) Refresh(ctx context.Context) *core.RefreshResponse {
	_, err := m.catalog.Refresh(ctx)
	m.markRefreshed()
	return &core.RefreshResponse{
		TotalModels: m.catalog.Len(),
		Refreshed:   err == nil,
	}
}

// Load asks the backend to materialize the model in memory.
func (m *Manager) Load(ctx context.Context, name string) *core.LoadResponse {
	return &core.LoadResponse{
		Model:   name,
		Success: m.catalog.Load(ctx, name),
	}
}

// Select resolves a model for the request without calling the backend.
func (m *Manager) Select(req *core.SelectRequest) *core.SelectResponse {
	var model string
	if req.Optimize {
		model = m.selector.OptimizeSelect(req.TaskType, req.ContextLength)
	} else {
		model = m.selector.Select(req.TaskType, req.ContextLength)
	}
	return &core.SelectResponse{Model: model, TaskType: req.TaskType}
}

// Generate runs one generation. An empty Model field triggers selection
// from the request's task type first.
func (m *Manager) Generate(ctx context.Context, req *core.GenerateRequest) *core.GenerateResult {
	model := req.Model
	if model == "" {
		if req.Optimize {
			model = m.selector.OptimizeSelect(req.TaskType, req.ContextLength)
		} else {
			model = m.selector.Select(req.TaskType, req.ContextLength)
		}
	}
	return m.invoker.Generate(ctx, model, req)
}

// Status reports the full catalog, task registry, and performance
// aggregates. The implicit refresh is debounced through the cache so
// polling dashboards cost at most one backend round-trip per window.
func (m *Manager) Status(ctx context.Context) *core.StatusResponse {
	if !m.recentlyRefreshed() {
		m.catalog.Refresh(ctx)
		m.markRefreshed()
	}

	models := m.catalog.Snapshot()
	activeNames := m.catalog.LoadedNames()

	return &core.StatusResponse{
		TotalModels:      len(models),
		ActiveModels:     len(activeNames),
		Models:           models,
		ActiveModelNames: activeNames,
		TaskDefinitions:  m.selector.Tasks(),
		PerformanceStats: m.Stats(),
	}
}

// Stats returns the per-model ledger aggregates with the catalog's
// current live score merged in.
func (m *Manager) Stats() map[string]core.ModelStats {
	stats := m.ledger.Stats()
	for name, st := range stats {
		if info, exists := m.catalog.Get(name); exists {
			st.PerformanceScore = info.PerformanceScore
			stats[name] = st
		}
	}
	return stats
}

// Close flushes pending ledger history to storage.
func (m *Manager) Close() error {
	return m.ledger.Close()
}

func (m *Manager) recentlyRefreshed() bool {
	if m.cache == nil {
		return false
	}
	if _, hit := m.cache.Get(core.RefreshCacheKey); hit {
		m.metrics.RecordCacheHit()
		return true
	}
	m.metrics.RecordCacheMiss()
	return false
}

func (m *Manager) markRefreshed() {
	if m.cache != nil {
		m.cache.Set(core.RefreshCacheKey, true, core.RefreshCacheTTL)
	}
}
