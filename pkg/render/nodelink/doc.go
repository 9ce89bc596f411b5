// Package nodelink renders the referral forest as a node-link diagram.
//
// # Overview
//
// Every member becomes a box and every referral becomes an arrow from the
// referrer to the member it referred, so roots sit at the top and levels
// read downward. Rendering goes through Graphviz.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, res, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [WriteJSON] writes the same forest as plain nodes and edges for tools that
// do their own layout.
//
// # Styling
//
//   - Ghost referrers (named as a referrer but absent from the member
//     column) are drawn with a dashed grey outline.
//   - Edges that were ignored to break a referral cycle, and self-referrals,
//     are drawn dashed red.
//   - With Options.Detailed, labels add the level and both downstream counts.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion lives in the parent render package and
// requires librsvg (rsvg-convert).
package nodelink
