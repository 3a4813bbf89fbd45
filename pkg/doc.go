// Package pkg provides the libraries behind anchortile.
//
// # Overview
//
// anchortile places anchors (access points, sensors, beacons) over a
// rectangular area so that every point lies within range of at least one,
// then measures how many anchors cover each square metre. The pkg directory
// is organized into three areas:
//
//  1. Domain logic: [geom], [tiling], [coverage]
//  2. Inputs and outputs: [config], [io], [render], [store]
//  3. Infrastructure: [pipeline], [cache], [observability], [errors]
//
// # Architecture
//
// The data flow of a run:
//
//	config file (JSON, YAML, TOML)
//	         ↓
//	    [config] package (schema check + typed config)
//	         ↓
//	    [tiling] package (four staggered placement passes)
//	         ↓
//	    [coverage] package (per-cell overlap grid + histogram)
//	         ↓
//	    [render] and [io] packages (plot, output document, run log)
//
// # Quick Start
//
//	cfg, _ := config.Load("site.yaml")
//	rng := pipeline.NewRNG(42)
//	res, _ := tiling.Place(cfg.Region(), cfg.Params(), rng)
//
//	grid, _ := coverage.Scan(tiling.Points(res.Anchors), cfg.Region(), cfg.Radius)
//	for _, line := range grid.Histogram().Lines() {
//	    fmt.Println(line)
//	}
//
// Most callers use [pipeline.Runner], which adds caching and stage hooks:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{Config: cfg})
//
// # Main Packages
//
// [geom] - The rectangular region, its 1m² cell lattice and distances.
//
// [tiling] - The placement engine. Anchors are offered on a staggered grid in
// four passes; a candidate closer than radius/density_factor to an existing
// anchor is retried at random positions around it before it is dropped.
//
// [coverage] - Counts, for the centre of every 1m² cell, the anchors within
// radius and summarizes the counts as a histogram with exact and cumulative
// percentages.
//
// [config] - Loads configurations from JSON, YAML or TOML and validates them
// against an embedded JSON Schema.
//
// [io] - The output document (a template merged with anchors and run
// metadata), the run log and timestamped file names.
//
// [render] - Draws anchors, coverage circles and the overlap heatmap as PNG,
// SVG or PDF, or exports the scene as JSON.
//
// [store] - Saves output documents to disk or MongoDB.
//
// [cache] - File, Redis and no-op caches for placements and plots.
//
// [pipeline] - place → analyze → render, shared by the CLI and the API.
//
// # Testing
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/tiling/...          # Specific package
//	go test -run Example ./pkg/...    # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/geom
// [tiling]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/tiling
// [coverage]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/coverage
// [config]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/render
// [store]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/anchortile/pkg/pipeline#Runner
package pkg
