package io

import (
	"path/filepath"
	"time"
)

// TimestampLayout formats the shared suffix of a run's files.
const TimestampLayout = "20060102_150405"

// Paths are the output files of one run.
type Paths struct {
	Dir      string
	Stamp    string
	Document string
	Log      string
}

// RunPaths names the output files for a run started at now.
func RunPaths(dir string, now time.Time) Paths {
	stamp := now.Format(TimestampLayout)
	return Paths{
		Dir:      dir,
		Stamp:    stamp,
		Document: filepath.Join(dir, "config_"+stamp+".json"),
		Log:      filepath.Join(dir, "config_"+stamp+".log"),
	}
}

// Plot returns the figure path for format.
func (p Paths) Plot(format string) string {
	return filepath.Join(p.Dir, "plot_"+p.Stamp+"."+format)
}
