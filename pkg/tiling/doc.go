// Package tiling places coverage anchors inside a rectangular region.
//
// # Overview
//
// [Place] covers a [geom.Region] with anchors whose circular ranges have a
// common radius. It runs four deterministic grid sweeps ([Passes]), each
// starting from a different corner, and on alternating rows offers an extra
// half-cell offset point to approximate a hexagonal packing. Every candidate
// is checked against all anchors placed so far; two anchors closer than
// Radius/DensityFactor conflict.
//
// A conflicting candidate triggers up to Attempts uniformly random retries
// inside the region. When those are exhausted the grid point is dropped.
// Dropping is expected behavior and only shows up in the placement log.
//
// # Determinism
//
// All randomness comes from the *rand.Rand handed to [Place]. Passing a
// generator seeded with the same value reproduces the same anchors and log:
//
//	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
//	res, err := tiling.Place(region, params, rng)
//
// # Errors
//
// Invalid parameters (non-positive radius, density factor or spacing,
// negative attempts, or a grid step that truncates to zero) are reported as
// INVALID_CONFIG errors before anything is placed.
//
// [geom.Region]: github.com/matzehuels/anchortile/pkg/geom.Region
package tiling
