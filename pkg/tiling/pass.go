package tiling

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/anchortile/pkg/geom"
)

// Pass describes one grid sweep.
//
// Rows (Y) and columns (X) are visited forward from 0 up to, but excluding,
// the floored region dimension, or in reverse from the floored dimension down
// to, but excluding, 0. Rows whose parity matches OffsetOnOdd also receive a
// second candidate shifted by (OffsetX·rowDistance/2, OffsetY·colDistance/2).
type Pass struct {
	Loop        int
	ReverseX    bool
	ReverseY    bool
	OffsetOnOdd bool
	OffsetX     float64 // +1 or -1
	OffsetY     float64 // +1 or -1
}

// Passes is the fixed sweep order. Each pass starts from a different corner so
// that gaps left by one direction are filled by the next.
var Passes = [4]Pass{
	{Loop: 1, ReverseX: false, ReverseY: false, OffsetOnOdd: false, OffsetX: +1, OffsetY: +1},
	{Loop: 2, ReverseX: true, ReverseY: true, OffsetOnOdd: true, OffsetX: -1, OffsetY: -1},
	{Loop: 3, ReverseX: false, ReverseY: true, OffsetOnOdd: false, OffsetX: +1, OffsetY: -1},
	{Loop: 4, ReverseX: true, ReverseY: false, OffsetOnOdd: true, OffsetX: -1, OffsetY: +1},
}

// Candidate is a point offered to the engine during a sweep.
type Candidate struct {
	Point  r2.Vec
	Offset bool // half-cell offset point rather than a grid point
}

// Candidates enumerates the points this pass offers, in order. Params must
// already be valid.
func (p Pass) Candidates(region geom.Region, params Params) []Candidate {
	nx, ny := region.Cells()
	sx, sy := params.Steps()
	dx := p.OffsetX * params.RowDistance() / 2
	dy := p.OffsetY * params.ColDistance() / 2

	xs := axis(nx, sx, p.ReverseX)
	var out []Candidate
	for _, y := range axis(ny, sy, p.ReverseY) {
		for _, x := range xs {
			out = append(out, Candidate{Point: r2.Vec{X: float64(x), Y: float64(y)}})
			if p.offsetRow(y) {
				out = append(out, Candidate{
					Point:  r2.Vec{X: float64(x) + dx, Y: float64(y) + dy},
					Offset: true,
				})
			}
		}
	}
	return out
}

func (p Pass) offsetRow(y int) bool {
	return (y%2 != 0) == p.OffsetOnOdd
}

// axis lists the integer coordinates along one dimension in sweep order.
func axis(limit, step int, reverse bool) []int {
	var out []int
	if reverse {
		for v := limit; v > 0; v -= step {
			out = append(out, v)
		}
		return out
	}
	for v := 0; v < limit; v += step {
		out = append(out, v)
	}
	return out
}
