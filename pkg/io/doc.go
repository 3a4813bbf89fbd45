// Package io reads and writes the files around a tiling run.
//
// A run produces three files that share a timestamp (see [RunPaths]):
//
//	plot_20240501_120000.png   the rendered figure
//	config_20240501_120000.json the output document
//	config_20240501_120000.log  the placement log and coverage summary
//
// # Output Document
//
// The output document starts from a template (any JSON object, typically a
// device configuration) and gains two keys:
//
//	{
//	  "...": "template keys are kept as-is",
//	  "anchors": [
//	    {"id": 1, "x": "0.00", "y": "0.00", "loop": 1}
//	  ],
//	  "tiling_config": {
//	    "length": 40, "width": 25, "radius": 8, "...": "...",
//	    "plot_file": "plot_20240501_120000.png",
//	    "log_file": "config_20240501_120000.log",
//	    "run_id": "0b6f...", "seed": 42,
//	    "coverage_stats": {"0": 100, "1": 97.5, "2": 41.25}
//	  }
//	}
//
// Anchor ids are 1-based and coordinates are strings with two decimals.
// coverage_stats holds the cumulative-from-above percentages: the value for
// n is the share of cells covered by at least n anchors.
//
// [ReadDocument] recovers the anchors and tiling configuration from a
// previous output so it can be re-analyzed or re-rendered.
package io
