package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// Options configures basis-graph rendering.
type Options struct {
	// Costs adds the unit cost to each edge label when set.
	Costs *transport.Matrix

	// Entering is drawn as an extra dotted edge, for pivot diagrams.
	Entering *transport.Pos

	// Loop highlights the cells of a stepping-stone loop.
	Loop transport.Path

	// SourceLabels and DestLabels replace the default "S1".."Sn" and
	// "D1".."Dm" names when long enough.
	SourceLabels []string
	DestLabels   []string
}

// ToDOT converts the basis of t into an undirected Graphviz graph.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(t *transport.Tableau, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph Basis {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white];\n")
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	buf.WriteString("  { rank=same;\n")
	for i := 0; i < t.Rows(); i++ {
		fmt.Fprintf(&buf, "    s%d [label=%q, shape=box];\n", i, label(opts.SourceLabels, "S", i))
	}
	buf.WriteString("  }\n")
	buf.WriteString("  { rank=same;\n")
	for j := 0; j < t.Cols(); j++ {
		fmt.Fprintf(&buf, "    d%d [label=%q, shape=ellipse];\n", j, label(opts.DestLabels, "D", j))
	}
	buf.WriteString("  }\n\n")

	onLoop := make(map[transport.Pos]bool, len(opts.Loop))
	for _, p := range opts.Loop {
		onLoop[p] = true
	}

	for i := 0; i < t.Rows(); i++ {
		for j := 0; j < t.Cols(); j++ {
			if !t.IsBasic(i, j) {
				continue
			}
			attrs := edgeAttrs(t.At(i, j), transport.Pos{Row: i, Col: j}, opts, onLoop)
			fmt.Fprintf(&buf, "  s%d -- d%d [%s];\n", i, j, attrs)
		}
	}

	if e := opts.Entering; e != nil {
		fmt.Fprintf(&buf, "  s%d -- d%d [label=\"+\", style=dotted, color=blue, penwidth=2];\n", e.Row, e.Col)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(custom []string, prefix string, k int) string {
	if k < len(custom) && custom[k] != "" {
		return custom[k]
	}
	return prefix + strconv.Itoa(k+1)
}

func edgeAttrs(c transport.Cell, pos transport.Pos, opts Options, onLoop map[transport.Pos]bool) string {
	text := transport.FormatCell(c)
	if opts.Costs != nil {
		text += " @" + strconv.FormatFloat(opts.Costs.At(pos.Row, pos.Col), 'f', -1, 64)
	}
	attrs := fmt.Sprintf("label=%q", text)
	if c.State == transport.Epsilon {
		attrs += ", style=dashed"
	}
	if onLoop[pos] {
		attrs += ", color=red, penwidth=2"
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

// normalizeViewBox replaces Graphviz's point-based svg header with a
// viewBox-only one so the image scales to its container.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
