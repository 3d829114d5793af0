package route

import (
	"time"

	"ollamarouter/internal/core"
)

// CatalogView is the read surface of the model catalog the selector
// needs. Defined here so tests can stub catalog state directly.
type CatalogView interface {
	Get(name string) (core.ModelInfo, bool)
	IsLoaded(name string) bool
	LoadedNames() []string
}

// Selector picks a model for a task type. The basic path is a strict
// priority cascade (preferred, fallback, capability scan, default chain):
// deterministic and predictable. OptimizeSelect is the opt-in
// score-driven re-ranking on top of the same candidate lists.
type Selector struct {
	catalog      CatalogView
	tasks        map[string]core.TaskDefinition
	capabilities []core.CapabilityEntry
	tierOf       map[string]core.SizeTier
	defaultChain []string
	clock        core.Clock
	logger       core.Logger
}

// SelectorConfig configures a Selector.
type SelectorConfig struct {
	Catalog      CatalogView
	Tasks        []core.TaskDefinition
	Capabilities []core.CapabilityEntry
	DefaultChain []string
	Clock        core.Clock
	Logger       core.Logger
}

// NewSelector creates a selector over static task and capability tables.
func NewSelector(config SelectorConfig) *Selector {
	if config.Clock == nil {
		config.Clock = core.SystemClock{}
	}
	if config.Logger == nil {
		config.Logger = &core.NopLogger{}
	}

	tasks := make(map[string]core.TaskDefinition, len(config.Tasks))
	for _, task := range config.Tasks {
		tasks[task.Name] = task
	}

	tierOf := make(map[string]core.SizeTier, len(config.Capabilities))
	for _, entry := range config.Capabilities {
		tierOf[entry.Name] = entry.SizeTier
	}

	return &Selector{
		catalog:      config.Catalog,
		tasks:        tasks,
		capabilities: config.Capabilities,
		tierOf:       tierOf,
		defaultChain: config.DefaultChain,
		clock:        config.Clock,
		logger:       config.Logger,
	}
}

// Tasks returns the task registry keyed by task name.
func (s *Selector) Tasks() map[string]core.TaskDefinition {
	tasks := make(map[string]core.TaskDefinition, len(s.tasks))
	for name, task := range s.tasks {
		tasks[name] = task
	}
	return tasks
}

// Select returns the model for the task by walking the priority cascade.
// An unknown task type is not an error: it resolves to the default
// chain. The result is always present in the catalog and loaded, except
// when nothing qualifies at all and the chain's ultimate fallback is
// returned as-is (the subsequent generate call surfaces the failure).
func (s *Selector) Select(taskType string, contextLength int) string {
	task, known := s.tasks[taskType]
	if !known {
		if taskType != "" {
			s.logger.Warn("Unknown task type: %s", taskType)
		}
		return s.defaultModel()
	}

	for _, name := range task.PreferredModels {
		if s.catalog.IsLoaded(name) {
			return name
		}
	}

	for _, name := range task.FallbackModels {
		if s.catalog.IsLoaded(name) {
			return name
		}
	}

	// Capability scan walks the table in declaration order, which keeps
	// the result stable within a process run.
	for _, entry := range s.capabilities {
		if s.catalog.IsLoaded(entry.Name) && entry.HasAll(task.RequiredCapabilities) {
			return entry.Name
		}
	}

	return s.defaultModel()
}

// OptimizeSelect re-ranks the task's preferred+fallback candidates by
// performance score biased by context length and recency. Ties break by
// candidate-list order. A winner that turns out not to be loaded
// downgrades silently to the deterministic cascade.
func (s *Selector) OptimizeSelect(taskType string, contextLength int) string {
	task, known := s.tasks[taskType]
	if !known {
		return s.defaultModel()
	}

	candidates := make([]string, 0, len(task.PreferredModels)+len(task.FallbackModels))
	candidates = append(candidates, task.PreferredModels...)
	candidates = append(candidates, task.FallbackModels...)

	best := ""
	bestScore := -1.0
	for _, name := range candidates {
		info, exists := s.catalog.Get(name)
		if !exists || !info.Loaded {
			continue
		}

		score := info.PerformanceScore *
			s.contextFactor(name, contextLength) *
			s.recencyFactor(info.LastUsed)

		// Strictly-greater keeps the earlier candidate on ties.
		if score > bestScore {
			best = name
			bestScore = score
		}
	}

	if best == "" || !s.catalog.IsLoaded(best) {
		return s.Select(taskType, contextLength)
	}
	return best
}

// contextFactor biases larger size tiers upward on long inputs. The tier
// comes from the capability table, not from identifier substrings.
func (s *Selector) contextFactor(name string, contextLength int) float64 {
	switch s.tierOf[name] {
	case core.TierXL, core.TierLarge:
		if contextLength > core.ContextThresholdLargeTier {
			return core.ContextFactorLargeTier
		}
	case core.TierMedium:
		if contextLength > core.ContextThresholdMediumTier {
			return core.ContextFactorMediumTier
		}
	}
	return 1.0
}

// recencyFactor decays linearly from 1.0 to the floor over the decay
// horizon; a never-used model is not penalized.
func (s *Selector) recencyFactor(lastUsed *time.Time) float64 {
	if lastUsed == nil {
		return 1.0
	}

	hours := s.clock.Now().Sub(*lastUsed).Hours()
	factor := 1.0 - hours/core.RecencyDecayHours
	if factor < core.RecencyFloor {
		return core.RecencyFloor
	}
	return factor
}

// defaultModel resolves the global default: the first loaded model in
// the configured chain, then any loaded model (sorted order), then the
// chain's head even if unloaded. The head is the ultimate fallback; the
// generate call against it surfaces the real failure.
func (s *Selector) defaultModel() string {
	for _, name := range s.defaultChain {
		if s.catalog.IsLoaded(name) {
			return name
		}
	}

	if loaded := s.catalog.LoadedNames(); len(loaded) > 0 {
		return loaded[0]
	}

	if len(s.defaultChain) > 0 {
		return s.defaultChain[0]
	}
	return ""
}
