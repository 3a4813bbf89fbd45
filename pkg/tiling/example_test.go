package tiling_test

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/anchortile/pkg/geom"
	"github.com/matzehuels/anchortile/pkg/tiling"
)

func ExamplePlace() {
	region := geom.Region{Length: 4, Width: 4}
	params := tiling.Params{Radius: 2, DensityFactor: 1, RowsPerRadius: 1, ColsPerRadius: 1}

	res, err := tiling.Place(region, params, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(res.Anchors), "anchors from", res.GridPoints, "grid points")
	fmt.Println(res.Anchors[0])
	// Output:
	// 9 anchors from 24 grid points
	// {0 0 1}
}
