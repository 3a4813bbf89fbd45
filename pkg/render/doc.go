// Package render draws a tiling run.
//
// A [Scene] bundles the region, the coverage radius, the placed anchors and
// the coverage grid. [Render] turns it into bytes in one of the supported
// formats:
//
//   - png, svg, pdf: a gonum/plot figure with the overlap heatmap underneath,
//     anchors as red dots and each anchor's coverage radius as a dashed circle
//   - json: the anchors and coverage histogram as data
//
// Options adjust the figure:
//
//	png, err := render.Render(render.FormatPNG, scene, render.WithSize(6*vg.Inch, 6*vg.Inch))
package render
