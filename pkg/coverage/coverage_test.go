package coverage

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/anchortile/pkg/errors"
	"github.com/matzehuels/anchortile/pkg/geom"
)

// A single anchor at the center of a 10x10 region with radius 5 covers every
// cell except the 21 near the corners.
func TestAnalyzeSingleAnchor(t *testing.T) {
	region := geom.Region{Length: 10, Width: 10}
	h, err := Analyze([]r2.Vec{{X: 5, Y: 5}}, region, 5)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if diff := cmp.Diff(map[int]int{0: 21, 1: 79}, h.Map()); diff != "" {
		t.Errorf("histogram mismatch (-want +got):\n%s", diff)
	}
	if h.Total() != 100 {
		t.Errorf("Total() = %d, want 100", h.Total())
	}
	if diff := cmp.Diff(map[string]float64{"0": 100, "1": 79}, h.Percentages()); diff != "" {
		t.Errorf("percentages mismatch (-want +got):\n%s", diff)
	}
	wantLines := []string{
		"  Covered by 1 anchor(s): 79.00%",
		"  Covered by 0 anchor(s): 100.00%",
	}
	if diff := cmp.Diff(wantLines, h.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeRadiusBoundaryInclusive(t *testing.T) {
	g, err := Scan([]r2.Vec{{X: 0, Y: 0}}, geom.Region{Length: 2, Width: 2}, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{{1, 1}, {1, 0}} // [y][x]
	for y := range want {
		for x := range want[y] {
			if got := g.At(x, y); got != want[y][x] {
				t.Errorf("At(%d,%d) = %d, want %d", x, y, got, want[y][x])
			}
		}
	}
}

func TestAnalyzeNoAnchors(t *testing.T) {
	h, err := Analyze(nil, geom.Region{Length: 3.7, Width: 2.2}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{6}, h.Counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	if got := h.Percentages()["0"]; got != 100 {
		t.Errorf("percentage at 0 = %v, want 100", got)
	}
}

func TestAnalyzeDegenerateRegion(t *testing.T) {
	tests := []geom.Region{
		{Length: 0.5, Width: 10},
		{Length: 10, Width: 0.99},
	}
	for _, region := range tests {
		_, err := Analyze([]r2.Vec{{X: 0, Y: 0}}, region, 1)
		if !errors.Is(err, errors.ErrCodeDegenerateRegion) {
			t.Errorf("region %+v: got %v, want DEGENERATE_REGION", region, err)
		}
	}
}

func TestAnalyzeInvalidRadius(t *testing.T) {
	_, err := Analyze(nil, geom.Region{Length: 5, Width: 5}, 0)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("got %v, want INVALID_CONFIG", err)
	}
}

func TestHistogramInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	region := geom.Region{Length: 23.4, Width: 17.9}
	pts := make([]r2.Vec, 40)
	for i := range pts {
		pts[i] = r2.Vec{X: rng.Float64() * region.Length, Y: rng.Float64() * region.Width}
	}

	h, err := Analyze(pts, region, 4.5)
	if err != nil {
		t.Fatal(err)
	}

	if h.Total() != 23*17 {
		t.Errorf("Total() = %d, want %d", h.Total(), 23*17)
	}
	m := h.Map()
	for n := 0; n <= h.Max(); n++ {
		if _, ok := m[n]; !ok {
			t.Errorf("missing histogram key %d", n)
		}
	}
	if h.Counts[h.Max()] == 0 {
		t.Error("maximum overlap must be observed at least once")
	}

	cum := h.Cumulative()
	if cum[0] != 100 {
		t.Errorf("cumulative at 0 = %v, want 100", cum[0])
	}
	for n := 1; n < len(cum); n++ {
		if cum[n] > cum[n-1] {
			t.Errorf("cumulative increases from %d (%v) to %d (%v)", n-1, cum[n-1], n, cum[n])
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	pts := []r2.Vec{{X: 1, Y: 1}, {X: 4.2, Y: 3.3}, {X: 7, Y: 0.5}, {X: 8.8, Y: 6.1}}
	region := geom.Region{Length: 10, Width: 8}

	a, err := Analyze(pts, region, 3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Analyze(pts, region, 3)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("repeated analysis differs (-first +second):\n%s", diff)
	}
}

func TestGridDims(t *testing.T) {
	g, err := Scan(nil, geom.Region{Length: 6.5, Width: 3}, 1)
	if err != nil {
		t.Fatal(err)
	}
	nx, ny := g.Dims()
	if nx != 6 || ny != 3 {
		t.Errorf("Dims() = (%d, %d), want (6, 3)", nx, ny)
	}
	if g.Cells() != 18 || g.Max() != 0 {
		t.Errorf("Cells() = %d, Max() = %d", g.Cells(), g.Max())
	}
}

func TestPercentRounding(t *testing.T) {
	h := &Histogram{Counts: []int{1, 1, 1}}
	want := map[string]float64{"0": 100, "1": 66.67, "2": 33.33}
	if diff := cmp.Diff(want, h.Percentages()); diff != "" {
		t.Errorf("percentages mismatch (-want +got):\n%s", diff)
	}
	if got := h.Percent(1); got < 33.33 || got > 33.34 {
		t.Errorf("Percent(1) = %v", got)
	}
}

func TestPercentRoundingTiesToEven(t *testing.T) {
	tests := []struct {
		counts []int
		key    string
		want   float64
	}{
		{[]int{799, 1}, "1", 0.12},
		{[]int{797, 3}, "1", 0.38},
		{[]int{795, 5}, "1", 0.62},
		{[]int{1, 1}, "1", 50},
	}
	for _, tt := range tests {
		h := &Histogram{Counts: tt.counts}
		if got := h.Percentages()[tt.key]; got != tt.want {
			t.Errorf("Percentages(%v)[%q] = %v, want %v", tt.counts, tt.key, got, tt.want)
		}
	}
}
