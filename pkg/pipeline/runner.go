package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/anchortile/pkg/cache"
	"github.com/matzehuels/anchortile/pkg/coverage"
	"github.com/matzehuels/anchortile/pkg/geom"
	"github.com/matzehuels/anchortile/pkg/observability"
	"github.com/matzehuels/anchortile/pkg/render"
	"github.com/matzehuels/anchortile/pkg/tiling"
)

// Cache key types reported to observability hooks.
const (
	keyTypePlacement = "placement"
	keyTypeArtifact  = "artifact"
)

// Runner executes pipeline stages with caching. It holds no per-run state,
// so one Runner may serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer] and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs place → analyze → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	cfg := opts.Config
	region := cfg.Region()

	result := &Result{RunID: uuid.NewString(), Seed: opts.Seed}

	start := time.Now()
	placement, hit, err := r.PlaceWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	result.Placement = placement
	result.CacheInfo.PlaceHit = hit
	result.Stats.PlaceTime = time.Since(start)
	result.Stats.Anchors = len(placement.Anchors)
	result.Stats.GridPoints = placement.GridPoints
	r.Logger.Info("placed anchors",
		"anchors", len(placement.Anchors),
		"grid_points", placement.GridPoints,
		"seed", opts.Seed,
		"cached", hit,
		"duration", result.Stats.PlaceTime)

	start = time.Now()
	grid, hist, err := r.Analyze(ctx, placement.Anchors, region, cfg.Radius)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Grid = grid
	result.Histogram = hist
	result.Coverage = hist.Percentages()
	result.Stats.AnalyzeTime = time.Since(start)
	result.Stats.Cells = hist.Total()
	result.Stats.MaxOverlap = hist.Max()
	r.Logger.Info("analyzed coverage",
		"cells", hist.Total(),
		"max_overlap", hist.Max(),
		"duration", result.Stats.AnalyzeTime)

	start = time.Now()
	scene := render.Scene{Region: region, Radius: cfg.Radius, Anchors: placement.Anchors, Grid: grid}
	artifacts, hit, err := r.renderWithCacheInfo(ctx, scene, opts.Formats, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PlaceWithCacheInfo runs the placement engine and reports whether the result
// came from cache.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, opts Options) (*tiling.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	cfg := opts.Config

	var key string
	if opts.Seeded() {
		key = r.Keyer.PlacementKey(cfg.Hash(), opts.Seed)
		if !opts.Refresh {
			if res, ok := r.cachedPlacement(ctx, key); ok {
				return res, true, nil
			}
		}
	}

	observability.Pipeline().OnPlaceStart(ctx, cfg.Length, cfg.Width, opts.Seed)
	start := time.Now()
	res, err := tiling.Place(cfg.Region(), cfg.Params(), NewRNG(opts.Seed))
	observability.Pipeline().OnPlaceComplete(ctx, countAnchors(res), countGrid(res), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		if data, err := json.Marshal(res); err == nil {
			r.store(ctx, key, keyTypePlacement, data, cache.TTLPlacement)
		}
	}
	return res, false, nil
}

// Place is PlaceWithCacheInfo without the cache flag.
func (r *Runner) Place(ctx context.Context, opts Options) (*tiling.Result, error) {
	res, _, err := r.PlaceWithCacheInfo(ctx, opts)
	return res, err
}

// Analyze scans the coverage of anchors over region.
func (r *Runner) Analyze(ctx context.Context, anchors []tiling.Anchor, region geom.Region, radius float64) (*coverage.Grid, *coverage.Histogram, error) {
	observability.Pipeline().OnAnalyzeStart(ctx, region.CellCount())
	start := time.Now()
	grid, err := coverage.Scan(tiling.Points(anchors), region, radius)
	if err != nil {
		observability.Pipeline().OnAnalyzeComplete(ctx, 0, time.Since(start), err)
		return nil, nil, err
	}
	hist := grid.Histogram()
	observability.Pipeline().OnAnalyzeComplete(ctx, hist.Max(), time.Since(start), nil)
	return grid, hist, nil
}

// Render draws scene in every format, using cached artifacts when all of
// them are available.
func (r *Runner) Render(ctx context.Context, scene render.Scene, formats []string) (map[string][]byte, error) {
	artifacts, _, err := r.renderWithCacheInfo(ctx, scene, formats, false)
	return artifacts, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, scene render.Scene, formats []string, refresh bool) (map[string][]byte, bool, error) {
	if err := render.ValidateFormats(formats); err != nil {
		return nil, false, err
	}
	sceneHash, err := hashScene(scene)
	if err != nil {
		return nil, false, err
	}
	keys := make(map[string]string, len(formats))
	for _, f := range formats {
		keys[f] = r.Keyer.ArtifactKey(sceneHash, cache.ArtifactKeyOpts{Format: f, Radius: scene.Radius})
	}

	if !refresh {
		artifacts := make(map[string][]byte, len(formats))
		for _, f := range formats {
			data, ok := r.lookup(ctx, keys[f], keyTypeArtifact)
			if !ok {
				break
			}
			artifacts[f] = data
		}
		if len(artifacts) == len(formats) {
			return artifacts, true, nil
		}
	}

	observability.Pipeline().OnRenderStart(ctx, formats)
	start := time.Now()
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, err := render.Render(f, scene)
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, formats, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data
	}
	observability.Pipeline().OnRenderComplete(ctx, formats, time.Since(start), nil)

	for f, data := range artifacts {
		r.store(ctx, keys[f], keyTypeArtifact, data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedPlacement(ctx context.Context, key string) (*tiling.Result, bool) {
	data, ok := r.lookup(ctx, key, keyTypePlacement)
	if !ok {
		return nil, false
	}
	var res tiling.Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "key", key, "error", err)
		return nil, false
	}
	return &res, true
}

// lookup reads key, treating backend errors as misses.
func (r *Runner) lookup(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// hashScene fingerprints the inputs of a rendering.
func hashScene(scene render.Scene) (string, error) {
	data, err := json.Marshal(struct {
		Region  geom.Region     `json:"region"`
		Radius  float64         `json:"radius"`
		Anchors []tiling.Anchor `json:"anchors"`
	}{scene.Region, scene.Radius, scene.Anchors})
	if err != nil {
		return "", fmt.Errorf("hash scene: %w", err)
	}
	return cache.Hash(data), nil
}

func countAnchors(res *tiling.Result) int {
	if res == nil {
		return 0
	}
	return len(res.Anchors)
}

func countGrid(res *tiling.Result) int {
	if res == nil {
		return 0
	}
	return res.GridPoints
}
