package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/anchortile/pkg/errors"
)

func TestRegionValidate(t *testing.T) {
	tests := []struct {
		name    string
		region  Region
		wantErr bool
	}{
		{"valid", Region{Length: 10, Width: 5}, false},
		{"fractional", Region{Length: 0.5, Width: 0.5}, false},
		{"zero length", Region{Length: 0, Width: 5}, true},
		{"negative width", Region{Length: 10, Width: -1}, true},
		{"NaN", Region{Length: math.NaN(), Width: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.region.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
		})
	}
}

func TestRegionContains(t *testing.T) {
	r := Region{Length: 10, Width: 4}
	tests := []struct {
		p    r2.Vec
		want bool
	}{
		{r2.Vec{X: 0, Y: 0}, true},
		{r2.Vec{X: 10, Y: 4}, true},
		{r2.Vec{X: 5, Y: 2}, true},
		{r2.Vec{X: -0.01, Y: 2}, false},
		{r2.Vec{X: 10.01, Y: 2}, false},
		{r2.Vec{X: 5, Y: 4.5}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRegionCells(t *testing.T) {
	nx, ny := Region{Length: 10.9, Width: 3.2}.Cells()
	if nx != 10 || ny != 3 {
		t.Errorf("Cells() = (%d, %d), want (10, 3)", nx, ny)
	}
	if n := (Region{Length: 0.9, Width: 20}).CellCount(); n != 0 {
		t.Errorf("CellCount() = %d, want 0", n)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 3, Y: 4}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}
