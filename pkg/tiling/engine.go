package tiling

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/anchortile/pkg/errors"
	"github.com/matzehuels/anchortile/pkg/geom"
)

// Place covers region with anchors using the four sweeps in [Passes].
//
// Anchors are returned in acceptance order. Each candidate is only compared
// against anchors accepted before it, so earlier anchors win conflicts. The
// log records every decision, in order, and ends with the number of grid
// points considered.
//
// rng is the only source of randomness; it must not be nil.
func Place(region geom.Region, params Params, rng *rand.Rand) (*Result, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "random source is required")
	}

	e := &engine{
		region:  region,
		params:  params,
		minDist: params.MinDistance(),
		rng:     rng,
	}
	for _, p := range Passes {
		for _, c := range p.Candidates(region, params) {
			e.offer(c.Point, p.Loop)
		}
	}
	e.logf("Considered %d grid points, placed %d anchors", e.points, len(e.anchors))

	return &Result{Anchors: e.anchors, Log: e.log, GridPoints: e.points}, nil
}

// engine is the state of one run. It is owned by a single Place call.
type engine struct {
	region  geom.Region
	params  Params
	minDist float64
	rng     *rand.Rand

	anchors []Anchor
	log     []string
	points  int
}

func (e *engine) offer(c r2.Vec, loop int) {
	e.points++

	if !e.region.Contains(c) {
		e.logf("Skipped out-of-bounds position (%.2f, %.2f)", c.X, c.Y)
		return
	}
	if !e.conflicts(c) {
		e.accept(c, loop)
		e.logf("Used initial position (%.2f, %.2f)", c.X, c.Y)
		return
	}
	e.logf("Cannot use initial position (%.2f, %.2f)", c.X, c.Y)
	e.retry(loop)
}

// retry draws up to Attempts random points inside the region and keeps the
// first one that does not conflict.
func (e *engine) retry(loop int) bool {
	for attempt := 1; attempt <= e.params.Attempts; attempt++ {
		c := r2.Vec{
			X: e.rng.Float64() * e.region.Length,
			Y: e.rng.Float64() * e.region.Width,
		}
		if !e.conflicts(c) {
			e.accept(c, loop)
			e.logf("Used random position (%.2f, %.2f) on attempt %d", c.X, c.Y, attempt)
			return true
		}
	}
	e.logf("Failed to find valid random position after %d attempts.", e.params.Attempts)
	return false
}

// conflicts reports whether c is closer than the minimum distance to any
// placed anchor. Only the first conflict is logged.
func (e *engine) conflicts(c r2.Vec) bool {
	for _, a := range e.anchors {
		d := geom.Distance(a.Point(), c)
		if d < e.minDist {
			e.logf("(%.2f,%.2f) and (%.2f,%.2f) are %.2fm apart - need at least %.2fm",
				a.X, a.Y, c.X, c.Y, d, e.minDist)
			return true
		}
	}
	return false
}

func (e *engine) accept(c r2.Vec, loop int) {
	e.anchors = append(e.anchors, Anchor{X: c.X, Y: c.Y, Loop: loop})
}

func (e *engine) logf(format string, args ...any) {
	e.log = append(e.log, fmt.Sprintf(format, args...))
}
