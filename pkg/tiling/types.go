package tiling

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/anchortile/pkg/errors"
)

// Anchor is a placed point tagged with the sweep that produced it.
type Anchor struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Loop int     `json:"loop"` // 1..4, see Passes
}

// Point returns the anchor position as a vector.
func (a Anchor) Point() r2.Vec { return r2.Vec{X: a.X, Y: a.Y} }

// Points returns the positions of anchors in order.
func Points(anchors []Anchor) []r2.Vec {
	pts := make([]r2.Vec, len(anchors))
	for i, a := range anchors {
		pts[i] = a.Point()
	}
	return pts
}

// Params tunes a placement run.
type Params struct {
	Radius        float64 `json:"radius"`
	DensityFactor float64 `json:"density_factor"`
	RowsPerRadius float64 `json:"rows_per_radius"`
	ColsPerRadius float64 `json:"cols_per_radius"`
	Attempts      int     `json:"attempts"` // random retries per conflicting grid point
}

// RowDistance is the grid spacing along X.
func (p Params) RowDistance() float64 { return p.Radius / p.RowsPerRadius }

// ColDistance is the grid spacing along Y.
func (p Params) ColDistance() float64 { return p.Radius / p.ColsPerRadius }

// MinDistance is the smallest allowed separation between two anchors.
func (p Params) MinDistance() float64 { return p.Radius / p.DensityFactor }

// Steps returns the integer sweep steps along X and Y.
func (p Params) Steps() (x, y int) {
	return int(p.RowDistance()), int(p.ColDistance())
}

// Validate checks the parameters and the derived grid steps.
// Attempts may be zero, which disables random retries.
func (p Params) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"radius", p.Radius},
		{"density_factor", p.DensityFactor},
		{"rows_per_radius", p.RowsPerRadius},
		{"cols_per_radius", p.ColsPerRadius},
	}
	for _, c := range checks {
		if err := errors.ValidatePositive(c.name, c.v); err != nil {
			return err
		}
	}
	if err := errors.ValidateNonNegativeInt("attempts", p.Attempts); err != nil {
		return err
	}

	sx, sy := p.Steps()
	if sx <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"row distance %.4g (radius/rows_per_radius) truncates to a zero grid step", p.RowDistance())
	}
	if sy <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"column distance %.4g (radius/cols_per_radius) truncates to a zero grid step", p.ColDistance())
	}
	return nil
}

// Result is the outcome of a placement run.
type Result struct {
	Anchors    []Anchor `json:"anchors"`
	Log        []string `json:"log"`
	GridPoints int      `json:"grid_points"` // candidates offered across all passes
}

// CountByLoop returns how many anchors each pass contributed.
func (r *Result) CountByLoop() map[int]int {
	counts := make(map[int]int, len(Passes))
	for _, p := range Passes {
		counts[p.Loop] = 0
	}
	for _, a := range r.Anchors {
		counts[a.Loop]++
	}
	return counts
}
