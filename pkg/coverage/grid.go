package coverage

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/anchortile/pkg/errors"
	"github.com/matzehuels/anchortile/pkg/geom"
)

// Grid holds the overlap count of every unit cell. Rows are Y, columns are X.
type Grid struct {
	counts *mat.Dense
	max    int
}

// Scan counts, for every unit cell of region, the points within radius of the
// cell coordinate.
func Scan(points []r2.Vec, region geom.Region, radius float64) (*Grid, error) {
	if err := errors.ValidatePositive("radius", radius); err != nil {
		return nil, err
	}
	nx, ny := region.Cells()
	if nx <= 0 || ny <= 0 {
		return nil, errors.New(errors.ErrCodeDegenerateRegion,
			"region %gx%g has no unit cells to sample", region.Length, region.Width)
	}

	g := &Grid{counts: mat.NewDense(ny, nx, nil)}
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			cell := r2.Vec{X: float64(x), Y: float64(y)}
			n := 0
			for _, p := range points {
				if geom.Distance(p, cell) <= radius {
					n++
				}
			}
			g.counts.Set(y, x, float64(n))
			g.max = max(g.max, n)
		}
	}
	return g, nil
}

// Dims returns the number of cells along X and Y.
func (g *Grid) Dims() (nx, ny int) {
	r, c := g.counts.Dims()
	return c, r
}

// At returns the overlap count of the cell at (x, y).
func (g *Grid) At(x, y int) int {
	return int(g.counts.At(y, x))
}

// Max returns the largest overlap count in the grid.
func (g *Grid) Max() int { return g.max }

// Cells returns the total number of cells.
func (g *Grid) Cells() int {
	nx, ny := g.Dims()
	return nx * ny
}

// Matrix exposes the counts as a read-only matrix view (rows = Y).
func (g *Grid) Matrix() mat.Matrix { return g.counts }

// Histogram tallies cells by overlap count.
func (g *Grid) Histogram() *Histogram {
	h := &Histogram{Counts: make([]int, g.max+1)}
	nx, ny := g.Dims()
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			h.Counts[g.At(x, y)]++
		}
	}
	return h
}

// Analyze scans the region and returns the exact-count histogram.
func Analyze(points []r2.Vec, region geom.Region, radius float64) (*Histogram, error) {
	g, err := Scan(points, region, radius)
	if err != nil {
		return nil, err
	}
	return g.Histogram(), nil
}
