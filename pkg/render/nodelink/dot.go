package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/threadmap/pkg/core/layout"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
	"github.com/matzehuels/threadmap/pkg/graph"
	"github.com/matzehuels/threadmap/pkg/render"
)

// Options configures node-link drawing.
type Options struct {
	// Params supplies the radii and label wrapping. The zero value means
	// layout.DefaultParams().
	Params *layout.Params
	// Edges draws relationship lines. Dangling edges are skipped.
	Edges bool
	// FontSize of labels in points.
	FontSize float64
}

const defaultFontSize = 14

func (o Options) params() layout.Params {
	if o.Params != nil {
		return *o.Params
	}
	return layout.DefaultParams()
}

// ToDOT converts a positioned layout to Graphviz DOT. Every node is pinned at
// its layout position (pos="x,y!", y flipped since Graphviz points up), so
// neato draws the layout instead of computing one.
//
// Topics are drawn at their base radius with the wrapped name in a pinned
// plaintext node below the circle. Concepts carry their label inside.
func ToDOT(l graph.Layout, opts Options) string {
	p := opts.params()
	fs := opts.FontSize
	if fs <= 0 {
		fs = defaultFontSize
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, style=filled, fillcolor=white, fontsize=%s];\n", num(fs))
	buf.WriteString("\n")

	present := make(map[string]bool, len(l.Nodes))
	labels := labelIDs(l.Nodes)
	for _, n := range l.Nodes {
		if n.Position == nil {
			continue
		}
		present[n.ID] = true
		x, y := n.Position.X, 0-n.Position.Y
		lines := strings.Join(layout.WrapLabel(n.DisplayLabel(), p.Label.LineChars), "\n")
		id := quote(n.ID)

		if !n.IsTopic() {
			d := 2 * p.BaseRadius(threadmap.Concept) / 72
			fmt.Fprintf(&buf, "  %s [label=%s, width=%s, pos=\"%s,%s!\"];\n",
				id, quote(lines), num(d), num(x), num(y))
			continue
		}

		r := p.BaseRadius(threadmap.Topic)
		size := p.EstimateLabelSize(n.DisplayLabel())
		fmt.Fprintf(&buf, "  %s [label=\"\", width=%s, penwidth=2, pos=\"%s,%s!\"];\n",
			id, num(2*r/72), num(x), num(y))
		fmt.Fprintf(&buf, "  %s [shape=plaintext, style=\"\", fixedsize=false, label=%s, pos=\"%s,%s!\"];\n",
			quote(labels[n.ID]), quote(lines), num(x), num(y-r-size.Height/2))
	}

	if opts.Edges {
		buf.WriteString("\n")
		for _, e := range l.Edges {
			if !present[e.Source] || !present[e.Target] {
				continue
			}
			fmt.Fprintf(&buf, "  %s -- %s;\n", quote(e.Source), quote(e.Target))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// labelIDs names the plaintext label node of every topic. A name already
// used by a real node gets underscores appended until it is free.
func labelIDs(nodes []graph.Node) map[string]string {
	taken := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		taken[n.ID] = true
	}
	out := make(map[string]string)
	for _, n := range nodes {
		if !n.IsTopic() {
			continue
		}
		name := n.ID + "#label"
		for taken[name] {
			name += "_"
		}
		taken[name] = true
		out[n.ID] = name
	}
	return out
}

// quote makes s a DOT double-quoted string. Only backslash and quote are
// escaped; newlines become the \n line break Graphviz understands in labels.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// RenderSVG renders DOT to SVG in-process with Graphviz.
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
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the SVG scales in browsers.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %.2f %.2f" width="%.0f" height="%.0f">`,
		match[1], match[2], w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// Render draws l in the given format: svg, png or pdf.
func Render(ctx context.Context, l graph.Layout, format string, scale float64, opts Options) ([]byte, error) {
	switch format {
	case "svg", "png", "pdf":
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
	svg, err := RenderSVG(ctx, ToDOT(l, opts))
	if err != nil {
		return nil, err
	}
	switch format {
	case "png":
		return render.ToPNG(ctx, svg, scale)
	case "pdf":
		return render.ToPDF(ctx, svg)
	}
	return svg, nil
}
