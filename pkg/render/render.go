package render

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/anchortile/pkg/coverage"
	"github.com/matzehuels/anchortile/pkg/errors"
	"github.com/matzehuels/anchortile/pkg/geom"
	"github.com/matzehuels/anchortile/pkg/tiling"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Formats lists every supported format.
var Formats = []string{FormatPNG, FormatSVG, FormatPDF, FormatJSON}

// Scene is everything a figure shows.
type Scene struct {
	Region  geom.Region
	Radius  float64
	Anchors []tiling.Anchor
	Grid    *coverage.Grid
}

// Option configures rendering.
type Option func(*options)

type options struct {
	width, height vg.Length
	title         string
	circles       bool
	heatmap       bool
}

// WithSize sets the figure size (default 8in x 8in).
func WithSize(w, h vg.Length) Option {
	return func(o *options) { o.width, o.height = w, h }
}

// WithTitle overrides the default title.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithoutCircles hides the coverage-radius circles.
func WithoutCircles() Option {
	return func(o *options) { o.circles = false }
}

// WithoutHeatmap hides the overlap heatmap.
func WithoutHeatmap() Option {
	return func(o *options) { o.heatmap = false }
}

// Render draws scene in format.
func Render(format string, scene Scene, opts ...Option) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := scene.Region.Validate(); err != nil {
		return nil, err
	}

	o := options{
		width:   8 * vg.Inch,
		height:  8 * vg.Inch,
		title:   DefaultTitle(scene.Region),
		circles: true,
		heatmap: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatJSON:
		return renderJSON(scene)
	default:
		return renderPlot(format, scene, o)
	}
}

// DefaultTitle is the figure title for region.
func DefaultTitle(r geom.Region) string {
	return fmt.Sprintf("Anchor Positions, Coverage Radius, and Overlap Heatmap for %gm x %gm Area", r.Length, r.Width)
}

// ValidateFormat reports whether format is supported.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if format == f {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat,
		"unsupported format %q (want %s)", format, strings.Join(Formats, ", "))
}

// ValidateFormats checks every entry of formats. An empty list is valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, trimming blanks and
// lower-casing. Duplicates are dropped.
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}
