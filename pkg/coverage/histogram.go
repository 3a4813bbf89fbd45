package coverage

import (
	"fmt"
	"strconv"
)

// Histogram maps overlap count (the slice index) to the number of cells with
// exactly that count. Indices run contiguously from 0 to the maximum overlap.
type Histogram struct {
	Counts []int `json:"counts"`
}

// Total returns the number of cells tallied.
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// Max returns the highest overlap count.
func (h *Histogram) Max() int { return len(h.Counts) - 1 }

// Map returns the histogram as overlap count → cell count, every key present.
func (h *Histogram) Map() map[int]int {
	m := make(map[int]int, len(h.Counts))
	for n, c := range h.Counts {
		m[n] = c
	}
	return m
}

// Percent returns the percentage of cells covered by exactly n anchors.
func (h *Histogram) Percent(n int) float64 {
	total := h.Total()
	if n < 0 || n >= len(h.Counts) || total == 0 {
		return 0
	}
	return 100 * float64(h.Counts[n]) / float64(total)
}

// Cumulative returns, for each n, the percentage of cells covered by at least
// n anchors. Values are accumulated from the highest count downward.
func (h *Histogram) Cumulative() []float64 {
	total := h.Total()
	out := make([]float64, len(h.Counts))
	if total == 0 {
		return out
	}
	running := 0
	for n := len(h.Counts) - 1; n >= 0; n-- {
		running += h.Counts[n]
		out[n] = 100 * float64(running) / float64(total)
	}
	return out
}

// Percentages is the persisted form of [Histogram.Cumulative]: keyed by the
// decimal overlap count and rounded to two decimals.
func (h *Histogram) Percentages() map[string]float64 {
	cum := h.Cumulative()
	out := make(map[string]float64, len(cum))
	for n, p := range cum {
		out[strconv.Itoa(n)] = round2(p)
	}
	return out
}

// Lines renders the cumulative view for humans, highest overlap first.
func (h *Histogram) Lines() []string {
	cum := h.Cumulative()
	lines := make([]string, 0, len(cum))
	for n := len(cum) - 1; n >= 0; n-- {
		lines = append(lines, fmt.Sprintf("  Covered by %d anchor(s): %.2f%%", n, cum[n]))
	}
	return lines
}

// round2 rounds to two decimals. Exact ties go to the even digit, so 0.125
// becomes 0.12 and 0.375 becomes 0.38.
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
