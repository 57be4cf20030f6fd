// Package graphviz is a layout oracle backed by Graphviz dot.
//
// The request is rendered to DOT with fixed-size boxes and neutral node
// names (n0, n1, ...), laid out by the embedded Graphviz, and read back
// from the "plain" output format. Plain output is in inches with the y axis
// pointing up; the oracle converts it to top-left coordinates in points
// with the y axis pointing down.
package graphviz

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/layout"
)

const pointsPerInch = 72

// plainFormat is Graphviz's line-oriented coordinate output.
const plainFormat graphviz.Format = "plain"

// Oracle lays out diagrams with dot.
type Oracle struct {
	NodeSep float64 // Gap between boxes in the same rank, in points
	RankSep float64 // Gap between ranks, in points
}

// New returns an oracle with dagre-like spacing.
func New() *Oracle {
	return &Oracle{NodeSep: layout.DefaultNodeSep, RankSep: layout.DefaultRankSep}
}

// Engine implements layout.Engine.
func (o *Oracle) Engine() string { return "dot" }

// Layout implements layout.Oracle.
func (o *Oracle) Layout(ctx context.Context, req layout.Request) (map[string]graph.Position, error) {
	if len(req.Nodes) == 0 {
		return map[string]graph.Position{}, nil
	}
	dot, names := o.ToDOT(req)

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
	if err := gv.Render(ctx, g, plainFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return ParsePlain(buf.Bytes(), names)
}

// ToDOT renders req as a DOT digraph. The returned slice maps the neutral
// node name n<i> back to the request ID at index i.
func (o *Oracle) ToDOT(req layout.Request) (string, []string) {
	rankdir := "LR"
	if req.Direction == graph.TopToBottom {
		rankdir = "TB"
	}

	names := make([]string, len(req.Nodes))
	index := make(map[string]int, len(req.Nodes))

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(o.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(o.RankSep))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for i, b := range req.Nodes {
		names[i] = b.ID
		index[b.ID] = i
		fmt.Fprintf(&buf, "  n%d [width=%s, height=%s];\n", i, inches(b.Width), inches(b.Height))
	}

	buf.WriteString("\n")
	for _, e := range req.Edges {
		s, ok1 := index[e.Source]
		t, ok2 := index[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", s, t)
	}

	buf.WriteString("}\n")
	return buf.String(), names
}

// ParsePlain reads Graphviz plain output and returns top-left coordinates
// in points keyed by request ID. names maps n<i> to IDs as returned by
// [Oracle.ToDOT].
func ParsePlain(out []byte, names []string) (map[string]graph.Position, error) {
	var (
		height   float64
		haveSize bool
		pos      = make(map[string]graph.Position, len(names))
	)

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed graph line %q", sc.Text())
			}
			h, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("graph height: %w", err)
			}
			height, haveSize = h, true
		case "node":
			if !haveSize {
				return nil, fmt.Errorf("node before graph line")
			}
			if len(fields) < 6 {
				return nil, fmt.Errorf("malformed node line %q", sc.Text())
			}
			i, err := nodeIndex(fields[1])
			if err != nil || i >= len(names) {
				return nil, fmt.Errorf("unknown node %q", fields[1])
			}
			var v [4]float64
			for j := range v {
				if v[j], err = strconv.ParseFloat(fields[2+j], 64); err != nil {
					return nil, fmt.Errorf("node %s: %w", fields[1], err)
				}
			}
			x, y, w, h := v[0], v[1], v[2], v[3]
			pos[names[i]] = graph.Position{
				X: (x - w/2) * pointsPerInch,
				Y: (height - y - h/2) * pointsPerInch,
			}
		case "stop":
			return pos, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return pos, nil
}

func nodeIndex(name string) (int, error) {
	name = strings.Trim(name, `"`)
	if !strings.HasPrefix(name, "n") {
		return 0, fmt.Errorf("unexpected node name %q", name)
	}
	return strconv.Atoi(name[1:])
}

func inches(points float64) string {
	return strconv.FormatFloat(points/pointsPerInch, 'f', 4, 64)
}

var _ layout.Oracle = (*Oracle)(nil)
