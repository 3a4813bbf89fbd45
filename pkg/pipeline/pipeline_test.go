package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/anchortile/pkg/cache"
	"github.com/matzehuels/anchortile/pkg/config"
	"github.com/matzehuels/anchortile/pkg/errors"
	"github.com/matzehuels/anchortile/pkg/observability"
	"github.com/matzehuels/anchortile/pkg/render"
)

func testConfig(t *testing.T, seed uint64) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Length: 14, Width: 9, Radius: 4, Attempts: 20,
		DensityFactor: 1.2, RowsPerRadius: 1, ColsPerRadius: 1,
		Seed: seed,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Config: testConfig(t, 0)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{render.FormatPNG}, opts.Formats); diff != "" {
		t.Errorf("formats (-want +got):\n%s", diff)
	}
	if opts.Seed == 0 {
		t.Error("unseeded run should draw a seed")
	}
	if opts.Seeded() {
		t.Error("drawn seed should not count as explicit")
	}
	if opts.Logger == nil {
		t.Error("logger default missing")
	}

	seed := opts.Seed
	if err := opts.ValidateAndSetDefaults(); err != nil || opts.Seed != seed {
		t.Errorf("second call changed seed or failed: %v", err)
	}
}

func TestSeedResolution(t *testing.T) {
	tests := []struct {
		name       string
		optSeed    uint64
		configSeed uint64
		want       uint64
	}{
		{"option wins", 5, 9, 5},
		{"config fallback", 0, 9, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Config: testConfig(t, tt.configSeed), Seed: tt.optSeed}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Fatal(err)
			}
			if opts.Seed != tt.want || !opts.Seeded() {
				t.Errorf("seed = %d seeded = %v, want %d true", opts.Seed, opts.Seeded(), tt.want)
			}
		})
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no config", Options{}, errors.ErrCodeInvalidConfig},
		{"bad format", Options{Config: testConfig(t, 1), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad config", Options{Config: &config.Config{Length: 10, Width: 10, Radius: -1, Attempts: 1,
			DensityFactor: 1, RowsPerRadius: 1, ColsPerRadius: 1}}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, nil, nil).Execute(context.Background(), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Config:  testConfig(t, 11),
		Formats: []string{render.FormatJSON, render.FormatSVG},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.RunID == "" {
		t.Error("missing run id")
	}
	if res.Seed != 11 {
		t.Errorf("seed = %d, want 11", res.Seed)
	}
	if len(res.Artifacts) != 2 || len(res.Artifacts["json"]) == 0 || len(res.Artifacts["svg"]) == 0 {
		t.Errorf("artifacts = %v", keys(res.Artifacts))
	}
	if res.Stats.Cells != 14*9 {
		t.Errorf("cells = %d, want %d", res.Stats.Cells, 14*9)
	}
	if res.Stats.Anchors != len(res.Placement.Anchors) || res.Stats.Anchors == 0 {
		t.Errorf("anchors = %d", res.Stats.Anchors)
	}
	if res.Coverage["0"] != 100 {
		t.Errorf("coverage[0] = %v", res.Coverage["0"])
	}
	if res.Stats.MaxOverlap != res.Grid.Max() {
		t.Errorf("max overlap %d != grid max %d", res.Stats.MaxOverlap, res.Grid.Max())
	}
}

func TestExecuteReproducible(t *testing.T) {
	a, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Config: testConfig(t, 3), Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Config: testConfig(t, 0), Seed: 3, Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Placement, b.Placement); diff != "" {
		t.Errorf("same seed, different placement (-a +b):\n%s", diff)
	}
	if a.RunID == b.RunID {
		t.Error("run ids should differ")
	}
}

func TestPlacementCache(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)

	opts := Options{Config: testConfig(t, 21)}
	first, hit, err := r.PlaceWithCacheInfo(ctx, opts)
	if err != nil || hit {
		t.Fatalf("first run: hit=%v err=%v", hit, err)
	}
	second, hit, err := r.PlaceWithCacheInfo(ctx, opts)
	if err != nil || !hit {
		t.Fatalf("second run: hit=%v err=%v", hit, err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached placement differs (-first +second):\n%s", diff)
	}

	opts.Refresh = true
	if _, hit, _ := r.PlaceWithCacheInfo(ctx, opts); hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestUnseededPlacementNotCached(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	for i := 0; i < 2; i++ {
		_, hit, err := r.PlaceWithCacheInfo(ctx, Options{Config: testConfig(t, 0)})
		if err != nil {
			t.Fatal(err)
		}
		if hit {
			t.Fatal("unseeded placement should never come from cache")
		}
	}
}

func TestRenderCache(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	opts := Options{Config: testConfig(t, 8), Formats: []string{"json"}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit || first.CacheInfo.PlaceHit {
		t.Errorf("first run cache info = %+v", first.CacheInfo)
	}
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit || !second.CacheInfo.PlaceHit {
		t.Errorf("second run cache info = %+v", second.CacheInfo)
	}
	if string(first.Artifacts["json"]) != string(second.Artifacts["json"]) {
		t.Error("cached artifact differs")
	}
}

func TestAnalyzeDegenerate(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	cfg := testConfig(t, 1)
	region := cfg.Region()
	region.Width = 0.5
	_, _, err := r.Analyze(context.Background(), nil, region, cfg.Radius)
	if !errors.Is(err, errors.ErrCodeDegenerateRegion) {
		t.Errorf("got %v, want DEGENERATE_REGION", err)
	}
}

func TestHooksFire(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)

	r := fileRunner(t)
	if _, err := r.Execute(context.Background(), Options{Config: testConfig(t, 4), Formats: []string{"json"}}); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"miss:placement", "place", "set:placement",
		"analyze",
		"miss:artifact", "render", "set:artifact",
	}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnPlaceComplete(context.Context, int, int, time.Duration, error) {
	h.add("place")
}

func (h *recordingHooks) OnAnalyzeComplete(context.Context, int, time.Duration, error) {
	h.add("analyze")
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.add("render")
}

func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string)  { h.add("hit:" + keyType) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, keyType string) { h.add("miss:" + keyType) }
func (h *recordingHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.add("set:" + keyType)
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
