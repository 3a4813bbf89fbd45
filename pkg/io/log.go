package io

import (
	"bufio"
	"io"

	"github.com/matzehuels/anchortile/pkg/coverage"
)

// CoverageHeader introduces the coverage section of a run log.
const CoverageHeader = "Coverage Stats (per 1m² cell, cumulative):"

// WriteLog writes the placement log one message per line, followed by a
// blank line and the cumulative coverage summary when hist is non-nil.
func WriteLog(w io.Writer, messages []string, hist *coverage.Histogram) error {
	bw := bufio.NewWriter(w)
	for _, m := range messages {
		bw.WriteString(m)
		bw.WriteByte('\n')
	}
	if hist != nil {
		bw.WriteByte('\n')
		bw.WriteString(CoverageHeader)
		bw.WriteByte('\n')
		for _, line := range hist.Lines() {
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// ExportLog writes the run log to path.
func ExportLog(path string, messages []string, hist *coverage.Histogram) error {
	return writeFile(path, func(w io.Writer) error { return WriteLog(w, messages, hist) })
}
