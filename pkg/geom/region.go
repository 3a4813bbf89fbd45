// Package geom holds the shared planar geometry of a tiling run: the
// rectangular region being covered and Euclidean distances between points.
//
// Points are [r2.Vec] values from gonum so that callers can use the rest of the
// gonum spatial tooling on anchor sets without conversion.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/anchortile/pkg/errors"
)

// Region is the rectangle [0, Length] × [0, Width] to be covered.
type Region struct {
	Length float64 `json:"length"` // extent along X
	Width  float64 `json:"width"`  // extent along Y
}

// Validate returns an INVALID_CONFIG error unless both dimensions are finite
// and strictly positive.
func (r Region) Validate() error {
	if err := errors.ValidatePositive("length", r.Length); err != nil {
		return err
	}
	return errors.ValidatePositive("width", r.Width)
}

// Contains reports whether p lies inside the region. Both bounds are inclusive.
func (r Region) Contains(p r2.Vec) bool {
	return p.X >= 0 && p.X <= r.Length && p.Y >= 0 && p.Y <= r.Width
}

// Cells returns the number of unit coverage cells along X and Y.
// Cells sit at integer coordinates 0..nx-1 and 0..ny-1.
func (r Region) Cells() (nx, ny int) {
	return int(math.Floor(r.Length)), int(math.Floor(r.Width))
}

// CellCount is nx*ny.
func (r Region) CellCount() int {
	nx, ny := r.Cells()
	return nx * ny
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}
