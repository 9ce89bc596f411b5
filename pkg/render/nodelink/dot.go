package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/referraltree/pkg/hierarchy"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds level and downstream counts to node labels.
	// When false, only the member id is shown.
	Detailed bool
}

// ToDOT converts a resolved referral graph to Graphviz DOT source.
// Nodes follow member order with ghost referrers last; edges run from
// referrer to member.
func ToDOT(g *hierarchy.Graph, res *hierarchy.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range g.Members() {
		label := fmtLabel(id, res, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(label, false), ", "))
	}
	for _, id := range g.Ghosts() {
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(id, true), ", "))
	}

	cut := make(map[string]bool)
	for _, id := range res.CycleMembers() {
		cut[id] = true
	}

	buf.WriteString("\n")
	for _, id := range g.Members() {
		ref, ok := g.RefOf(id)
		if !ok || !ref.Valid {
			continue
		}
		if cut[id] || ref.ID == id {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=red];\n", ref.ID, id)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", ref.ID, id)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(id string, res *hierarchy.Result, detailed bool) string {
	if !detailed || res == nil {
		return id
	}
	pos, counts, err := res.Row(id)
	if err != nil {
		return id
	}
	return fmt.Sprintf("%s\nlevel: %d\ndirect: %d\ntotal: %d", id, pos.Level, counts.Direct, counts.Total)
}

func fmtAttrs(label string, ghost bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if ghost {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=dimgrey")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
// The result can be converted further with render.ToPDF or render.ToPNG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing starts at the
// origin and carries explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
