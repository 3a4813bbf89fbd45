// Package coverage measures how uniformly a set of anchors covers a region.
//
// The region is sampled at unit cells placed on integer coordinates
// (x in [0, floor(length)), y in [0, floor(width))). For each cell, [Scan]
// counts the anchors within radius of the cell coordinate (boundary
// inclusive), and [Analyze] turns those counts into a [Histogram] keyed by
// overlap count.
//
// Two views are exposed. The histogram itself is exact: Counts[n] is the
// number of cells covered by exactly n anchors. The cumulative view, which is
// what gets persisted, accumulates from the highest overlap downward so the
// value reported for n is the percentage of cells covered by at least n
// anchors:
//
//	h, err := coverage.Analyze(points, region, radius)
//	stats := h.Percentages() // {"0": 100, "1": 93.5, "2": 41.25, ...}
//
// The computation is brute force over cells × anchors and involves no
// randomness, so repeated calls on the same input return identical output.
package coverage
