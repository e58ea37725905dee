package wall

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns the compatibility graph as an undirected Graphviz graph.
// Each layer is a node labelled with its bricks ("2-3-2"); each compatible
// pair is one edge. Self-compatible layers get a loop.
func ToDOT(layers []Layer, adj Adjacency) string {
	var buf bytes.Buffer
	buf.WriteString("graph Layers {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, shape=box, style=\"filled,rounded\", fillcolor=white];\n\n")

	for i, l := range layers {
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", i, l.String())
	}
	if len(layers) > 0 {
		buf.WriteString("\n")
	}
	for i, row := range adj {
		for _, j := range row {
			if j >= i {
				fmt.Fprintf(&buf, "  n%d -- n%d;\n", i, j)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders the compatibility graph to SVG through Graphviz.
func RenderSVG(ctx context.Context, layers []Layer, adj Adjacency) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(ToDOT(layers, adj)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
