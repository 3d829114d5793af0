package route

import (
	"sort"
	"testing"
	"time"

	"ollamarouter/internal/config"
	"ollamarouter/internal/core"
)

type fakeCatalog struct {
	models map[string]core.ModelInfo
}

func newFakeCatalog(models ...core.ModelInfo) *fakeCatalog {
	fc := &fakeCatalog{models: make(map[string]core.ModelInfo)}
	for _, m := range models {
		fc.models[m.Name] = m
	}
	return fc
}

func (fc *fakeCatalog) Get(name string) (core.ModelInfo, bool) {
	info, ok := fc.models[name]
	return info, ok
}

func (fc *fakeCatalog) IsLoaded(name string) bool {
	info, ok := fc.models[name]
	return ok && info.Loaded
}

func (fc *fakeCatalog) LoadedNames() []string {
	var names []string
	for name, info := range fc.models {
		if info.Loaded {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

type fakeClock struct {
	now time.Time
}

func (fc *fakeClock) Now() time.Time { return fc.now }

func loaded(name string, score float64) core.ModelInfo {
	return core.ModelInfo{Name: name, Loaded: true, PerformanceScore: score}
}

func unloaded(name string) core.ModelInfo {
	return core.ModelInfo{Name: name}
}

func testTasks() []core.TaskDefinition {
	return []core.TaskDefinition{
		{
			Name:                 "code_generation",
			RequiredCapabilities: []string{core.CapCoding},
			PreferredModels:      []string{"codellama", "deepseek-coder"},
			FallbackModels:       []string{"llama3", "mistral"},
		},
		{
			Name:                 "general_chat",
			RequiredCapabilities: []string{core.CapConversation},
			PreferredModels:      []string{"llama3", "mistral"},
			FallbackModels:       []string{"phi3"},
		},
	}
}

func testCapabilities() []core.CapabilityEntry {
	return []core.CapabilityEntry{
		{Name: "llama3", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapCoding}, SizeTier: core.TierLarge},
		{Name: "mistral", Capabilities: []string{core.CapTextGeneration, core.CapConversation}, SizeTier: core.TierMedium},
		{Name: "codellama", Capabilities: []string{core.CapCoding, core.CapAnalysis}, SizeTier: core.TierLarge},
		{Name: "phi3", Capabilities: []string{core.CapTextGeneration, core.CapConversation}, SizeTier: core.TierSmall},
	}
}

func newTestSelector(catalog CatalogView, clock core.Clock) *Selector {
	return NewSelector(SelectorConfig{
		Catalog:      catalog,
		Tasks:        testTasks(),
		Capabilities: testCapabilities(),
		DefaultChain: []string{"llama3", "mistral", "phi3"},
		Clock:        clock,
	})
}

func TestSelectPreferredFirst(t *testing.T) {
	catalog := newFakeCatalog(
		loaded("codellama", 1.0),
		loaded("llama3", 5.0),
	)
	s := newTestSelector(catalog, nil)

	if got := s.Select("code_generation", 0); got != "codellama" {
		t.Errorf("Select = %q, want codellama", got)
	}
}

func TestSelectFallbackWhenPreferredUnloaded(t *testing.T) {
	catalog := newFakeCatalog(
		unloaded("codellama"),
		loaded("mistral", 1.0),
	)
	s := newTestSelector(catalog, nil)

	if got := s.Select("code_generation", 0); got != "mistral" {
		t.Errorf("Select = %q, want mistral", got)
	}
}

func TestSelectCapabilityScan(t *testing.T) {
	// No preferred or fallback model is loaded; llama3 is not in either
	// list for this synthetic task but covers the capability.
	tasks := []core.TaskDefinition{{
		Name:                 "analysis",
		RequiredCapabilities: []string{core.CapCoding},
		PreferredModels:      []string{"deepseek-coder"},
	}}
	catalog := newFakeCatalog(loaded("llama3", 1.0), loaded("mistral", 1.0))
	s := NewSelector(SelectorConfig{
		Catalog:      catalog,
		Tasks:        tasks,
		Capabilities: testCapabilities(),
		DefaultChain: []string{"phi3"},
	})

	if got := s.Select("analysis", 0); got != "llama3" {
		t.Errorf("Select = %q, want llama3 via capability scan", got)
	}
}

func TestSelectUnknownTaskUsesDefaultChain(t *testing.T) {
	catalog := newFakeCatalog(loaded("mistral", 1.0))
	s := newTestSelector(catalog, nil)

	if got := s.Select("no_such_task", 0); got != "mistral" {
		t.Errorf("Select = %q, want mistral from default chain", got)
	}
}

func TestSelectNothingLoadedReturnsUltimateFallback(t *testing.T) {
	s := newTestSelector(newFakeCatalog(), nil)

	if got := s.Select("general_chat", 0); got != "llama3" {
		t.Errorf("Select = %q, want chain head llama3", got)
	}
}

func TestSelectAnyLoadedBeforeUltimateFallback(t *testing.T) {
	// Loaded model outside the default chain still beats the unloaded tail.
	catalog := newFakeCatalog(loaded("qwen", 1.0))
	s := newTestSelector(catalog, nil)

	if got := s.Select("no_such_task", 0); got != "qwen" {
		t.Errorf("Select = %q, want qwen", got)
	}
}

func TestOptimizeSelectPrefersHigherScore(t *testing.T) {
	// Deterministic Select returns the first preferred model; the
	// optimizer overrides it with the better-scoring candidate.
	catalog := newFakeCatalog(
		loaded("llama3", 5.0),
		loaded("mistral", 8.0),
	)
	s := newTestSelector(catalog, nil)

	if got := s.Select("general_chat", 0); got != "llama3" {
		t.Errorf("Select = %q, want llama3", got)
	}
	if got := s.OptimizeSelect("general_chat", 0); got != "mistral" {
		t.Errorf("OptimizeSelect = %q, want mistral", got)
	}
}

func TestOptimizeSelectTieBreaksByCandidateOrder(t *testing.T) {
	catalog := newFakeCatalog(
		loaded("llama3", 4.0),
		loaded("mistral", 4.0),
	)
	s := newTestSelector(catalog, nil)

	if got := s.OptimizeSelect("general_chat", 0); got != "llama3" {
		t.Errorf("OptimizeSelect = %q, want first candidate llama3 on tie", got)
	}
}

func TestOptimizeSelectContextFactor(t *testing.T) {
	// mistral scores higher raw, but a long context boosts the larger
	// tier enough to flip the ranking: 5.0*1.2 > 5.5*1.1.
	catalog := newFakeCatalog(
		loaded("llama3", 5.0),
		loaded("mistral", 5.5),
	)
	s := newTestSelector(catalog, nil)

	if got := s.OptimizeSelect("general_chat", 0); got != "mistral" {
		t.Errorf("short context: OptimizeSelect = %q, want mistral", got)
	}
	if got := s.OptimizeSelect("general_chat", 3000); got != "llama3" {
		t.Errorf("long context: OptimizeSelect = %q, want llama3", got)
	}
}

func TestOptimizeSelectRecencyDecay(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}
	staleUse := now.Add(-48 * time.Hour)

	llama := loaded("llama3", 6.0)
	llama.LastUsed = &staleUse
	catalog := newFakeCatalog(llama, loaded("mistral", 4.0))
	s := newTestSelector(catalog, clock)

	// 48h old hits the recency floor: 6.0*0.5 = 3.0 < 4.0.
	if got := s.OptimizeSelect("general_chat", 0); got != "mistral" {
		t.Errorf("OptimizeSelect = %q, want mistral over stale llama3", got)
	}

	freshUse := now.Add(-1 * time.Hour)
	llama.LastUsed = &freshUse
	catalog.models["llama3"] = llama
	if got := s.OptimizeSelect("general_chat", 0); got != "llama3" {
		t.Errorf("OptimizeSelect = %q, want fresh llama3", got)
	}
}

func TestOptimizeSelectNoLoadedCandidatesFallsBack(t *testing.T) {
	catalog := newFakeCatalog(
		unloaded("llama3"),
		unloaded("mistral"),
		unloaded("phi3"),
		loaded("qwen", 2.0),
	)
	s := newTestSelector(catalog, nil)

	// No candidate loaded: degrade to the cascade, which resolves via
	// the any-loaded-model rule.
	if got := s.OptimizeSelect("general_chat", 0); got != "qwen" {
		t.Errorf("OptimizeSelect = %q, want qwen", got)
	}
}

func TestContextFactorOverDefaultTable(t *testing.T) {
	// The built-in tiers must reproduce the parameter-count rules: 70b and
	// 34b variants get 1.2 above 2000 tokens, 13b variants 1.1 above 1000,
	// base models stay at 1.0 regardless of context length.
	s := NewSelector(SelectorConfig{
		Catalog:      newFakeCatalog(),
		Capabilities: config.DefaultCapabilityTable(),
	})

	cases := []struct {
		model         string
		contextLength int
		want          float64
	}{
		{"llama3:70b", 3000, 1.2},
		{"llama2:70b", 3000, 1.2},
		{"codellama:34b", 3000, 1.2},
		{"llama3:70b", 1500, 1.0},
		{"llama2:13b", 1500, 1.1},
		{"llama2:13b", 3000, 1.1},
		{"codellama:13b", 1500, 1.1},
		{"llava:13b", 3000, 1.1},
		{"llama2:13b", 800, 1.0},
		{"llama3", 3000, 1.0},
		{"mistral", 3000, 1.0},
		{"mixtral", 3000, 1.0},
		{"deepseek-coder", 3000, 1.0},
	}
	for _, tc := range cases {
		if got := s.contextFactor(tc.model, tc.contextLength); got != tc.want {
			t.Errorf("contextFactor(%s, %d) = %v, want %v", tc.model, tc.contextLength, got, tc.want)
		}
	}
}

func TestOptimizeSelectUnknownTask(t *testing.T) {
	catalog := newFakeCatalog(loaded("llama3", 1.0))
	s := newTestSelector(catalog, nil)

	if got := s.OptimizeSelect("no_such_task", 0); got != "llama3" {
		t.Errorf("OptimizeSelect = %q, want llama3", got)
	}
}
