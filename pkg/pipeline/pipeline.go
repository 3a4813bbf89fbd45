// Package pipeline runs a tiling end to end: place → analyze → render.
//
// The CLI and the API server both drive this package so they share one set
// of defaults, one caching policy and one place where stage hooks fire.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config:  cfg,
//	    Formats: []string{"png", "json"},
//	})
//	png := result.Artifacts["png"]
//
// Stages can also run on their own:
//
//	placement, err := runner.Place(ctx, opts)
//	grid, hist, err := runner.Analyze(ctx, placement.Anchors, region, radius)
//	artifacts, err := runner.Render(ctx, scene, []string{"svg"})
//
// # Seeds and Caching
//
// A seed comes from [Options.Seed], else from the configuration's seed key.
// When neither is set a fresh seed is drawn and reported in [Result.Seed] so
// the run can be reproduced. Only placements with an explicit seed are
// cached, because an unseeded run must not return a previous random layout.
package pipeline

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchortile/pkg/config"
	"github.com/matzehuels/anchortile/pkg/coverage"
	"github.com/matzehuels/anchortile/pkg/errors"
	"github.com/matzehuels/anchortile/pkg/render"
	"github.com/matzehuels/anchortile/pkg/tiling"
)

// DefaultFormat is rendered when Options.Formats is empty.
const DefaultFormat = render.FormatPNG

// Options configures a pipeline run.
type Options struct {
	Config  *config.Config `json:"config"`
	Seed    uint64         `json:"seed,omitempty"`
	Formats []string       `json:"formats,omitempty"`

	// Refresh skips cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	explicitSeed bool
	validated    bool
}

// ValidateAndSetDefaults checks the configuration and formats, resolves the
// seed and fills in defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Config == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "config is required")
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := render.ValidateFormats(o.Formats); err != nil {
		return err
	}

	switch {
	case o.Seed != 0:
		o.explicitSeed = true
	case o.Config.Seed != 0:
		o.Seed = o.Config.Seed
		o.explicitSeed = true
	default:
		o.Seed = freshSeed()
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Seeded reports whether the seed was supplied rather than drawn.
func (o *Options) Seeded() bool { return o.explicitSeed }

// NewRNG returns the generator used for placement with seed.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func freshSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}

// Result holds everything a run produced.
type Result struct {
	RunID     string
	Seed      uint64
	Placement *tiling.Result
	Grid      *coverage.Grid
	Histogram *coverage.Histogram

	// Coverage is the cumulative-from-above percentage per overlap count.
	Coverage map[string]float64

	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats summarizes a run.
type Stats struct {
	Anchors     int
	GridPoints  int
	Cells       int
	MaxOverlap  int
	PlaceTime   time.Duration
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	PlaceHit  bool
	RenderHit bool
}
