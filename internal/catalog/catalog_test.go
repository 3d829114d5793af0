package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"ollamarouter/internal/core"
	"ollamarouter/internal/ollama"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

// fakeBackend is a minimal Ollama stand-in with switchable failure modes.
type fakeBackend struct {
	server       *httptest.Server
	tagsBody     atomic.Value // string
	tagsDown     atomic.Bool
	generateFail atomic.Bool
	generateHits atomic.Int64
}

func newFakeBackend(tagsBody string) *fakeBackend {
	fb := &fakeBackend{}
	fb.tagsBody.Store(tagsBody)
	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			if fb.tagsDown.Load() {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(fb.tagsBody.Load().(string)))
		case "/api/generate":
			fb.generateHits.Add(1)
			if fb.generateFail.Load() {
				http.Error(w, `{"error":"load failed"}`, http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`{"response":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	return fb
}

func (fb *fakeBackend) catalog(clock core.Clock) *Catalog {
	client := ollama.NewClient(fb.server.URL, fb.server.Client(), &core.NopLogger{})
	return NewCatalog(client, clock, &core.NopLogger{})
}

const twoModelTags = `{"models":[
	{"name":"llama3","size":4661224676,"modified_at":"2026-01-15T10:00:00Z","digest":"d1"},
	{"name":"mistral","size":4109865159,"modified_at":"2026-01-16T10:00:00Z","digest":"d2"}
]}`

func TestRefresh_PopulatesCatalog(t *testing.T) {
	fb := newFakeBackend(twoModelTags)
	defer fb.server.Close()

	c := fb.catalog(&fakeClock{now: time.Now()})

	models, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2", len(models))
	}

	llama := models["llama3"]
	if llama.Loaded {
		t.Error("freshly discovered model must not be marked loaded")
	}
	if llama.PerformanceScore != core.NeutralPerformanceScore {
		t.Errorf("score = %v, want neutral default", llama.PerformanceScore)
	}
	if llama.Digest != "d1" {
		t.Errorf("digest = %s, want d1", llama.Digest)
	}
}

func TestLoad_MarksLoadedAndStampsLastUsed(t *testing.T) {
	fb := newFakeBackend(twoModelTags)
	defer fb.server.Close()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := fb.catalog(&fakeClock{now: now})

	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	if !c.Load(context.Background(), "llama3") {
		t.Fatal("Load should succeed")
	}

	info, ok := c.Get("llama3")
	if !ok || !info.Loaded {
		t.Fatal("model should be loaded")
	}
	if info.LastUsed == nil || !info.LastUsed.Equal(now) {
		t.Errorf("LastUsed = %v, want %v", info.LastUsed, now)
	}
	if !c.IsLoaded("llama3") {
		t.Error("IsLoaded should report true")
	}
	if c.IsLoaded("mistral") {
		t.Error("mistral was never loaded")
	}
}

func TestLoad_UnknownModelSkipsProbe(t *testing.T) {
	fb := newFakeBackend(twoModelTags)
	defer fb.server.Close()

	c := fb.catalog(&fakeClock{now: time.Now()})
	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	if c.Load(context.Background(), "ghost-model") {
		t.Error("Load of unknown model should fail")
	}
	if fb.generateHits.Load() != 0 {
		t.Error("unknown model must not trigger a backend probe")
	}
}

func TestLoad_ProbeFailureLeavesStateUnchanged(t *testing.T) {
	fb := newFakeBackend(twoModelTags)
	defer fb.server.Close()

	c := fb.catalog(&fakeClock{now: time.Now()})
	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	fb.generateFail.Store(true)

	if c.Load(context.Background(), "llama3") {
		t.Error("Load should report failure")
	}
	info, _ := c.Get("llama3")
	if info.Loaded || info.LastUsed != nil {
		t.Errorf("failed load must not mutate state: %+v", info)
	}
}

func TestRefresh_PreservesScoreAndLastUsed(t *testing.T) {
	fb := newFakeBackend(twoModelTags)
	defer fb.server.Close()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := fb.catalog(&fakeClock{now: now})

	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if !c.Load(context.Background(), "llama3") {
		t.Fatal("Load should succeed")
	}
	c.UpdateScore("llama3", 7.5)

	// Second refresh replaces every entry wholesale.
	models, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	llama := models["llama3"]
	if llama.PerformanceScore != 7.5 {
		t.Errorf("score = %v, want 7.5 preserved across refresh", llama.PerformanceScore)
	}
	if llama.LastUsed == nil || !llama.LastUsed.Equal(now) {
		t.Errorf("LastUsed not preserved: %v", llama.LastUsed)
	}
	if !llama.Loaded {
		t.Error("loaded flag should persist while the model stays active")
	}
}

func TestRefresh_FailSoftKeepsPreviousCatalog(t *testing.T) {
	fb := newFakeBackend(twoModelTags)
	defer fb.server.Close()

	c := fb.catalog(&fakeClock{now: time.Now()})

	before, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("first Refresh error: %v", err)
	}

	fb.tagsDown.Store(true)

	after, err := c.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error from unreachable backend")
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("catalog changed on failed refresh:\nbefore: %+v\nafter: %+v", before, after)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestRefresh_DropsRemovedModels(t *testing.T) {
	fb := newFakeBackend(twoModelTags)
	defer fb.server.Close()

	c := fb.catalog(&fakeClock{now: time.Now()})
	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if !c.Load(context.Background(), "mistral") {
		t.Fatal("Load should succeed")
	}

	fb.tagsBody.Store(`{"models":[{"name":"llama3","size":1,"modified_at":"","digest":"d1"}]}`)

	models, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if _, exists := models["mistral"]; exists {
		t.Error("removed model should disappear from the catalog")
	}
	if names := c.LoadedNames(); len(names) != 0 {
		t.Errorf("LoadedNames = %v, want empty after removal", names)
	}
}

func TestLoadedNames_Sorted(t *testing.T) {
	fb := newFakeBackend(twoModelTags)
	defer fb.server.Close()

	c := fb.catalog(&fakeClock{now: time.Now()})
	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	c.Load(context.Background(), "mistral")
	c.Load(context.Background(), "llama3")

	got := c.LoadedNames()
	want := []string{"llama3", "mistral"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadedNames = %v, want %v", got, want)
	}
}
