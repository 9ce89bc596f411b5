// Package render converts rendered diagrams between output formats.
//
// [ToPDF] and [ToPNG] turn SVG produced by the [nodelink] subpackage into
// PDF or PNG using the external rsvg-convert tool from librsvg.
//
//	dot := nodelink.ToDOT(g, res, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(svg, 2.0)
//
// [nodelink]: github.com/matzehuels/referraltree/pkg/render/nodelink
package render
