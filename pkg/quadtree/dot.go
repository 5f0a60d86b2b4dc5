package quadtree

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the tree structure.
//
// Color leaves are drawn as rounded boxes labeled with their intensity;
// areas are drawn as small circles with their four children attached in
// NW, NE, SE, SW order. The output is a complete digraph suitable for the
// dot tool or for RenderSVG.
func (t *Tree) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph QuadTree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	if t.root != nil {
		writeDOTNode(&buf, t.root, 0)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTNode(buf *bytes.Buffer, n *node, id int) int {
	nodeID := fmt.Sprintf("n%d", id)
	next := id + 1

	if n.kind == colorNode {
		fmt.Fprintf(buf, "  %s [label=\"%d\", shape=box, style=\"filled,rounded\"];\n", nodeID, n.value)
		return next
	}

	fmt.Fprintf(buf, "  %s [label=\"\", shape=circle, width=0.2];\n", nodeID)
	for _, k := range n.kids {
		fmt.Fprintf(buf, "  %s -> n%d;\n", nodeID, next)
		next = writeDOTNode(buf, k, next)
	}
	return next
}

// RenderSVG renders the tree structure as an SVG image via Graphviz.
//
// It requires the Graphviz library (github.com/goccy/go-graphviz) to
// initialize; errors from initialization, DOT parsing, or rendering are
// wrapped with context and returned.
func (t *Tree) RenderSVG(ctx context.Context) ([]byte, error) {
	dot := t.ToDOT()

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
	return buf.Bytes(), nil
}
