package layout

import (
	"context"

	"github.com/matzehuels/jray/pkg/graph"
)

// Default spacing between sibling boxes and between ranks.
const (
	DefaultNodeSep = 50
	DefaultRankSep = 50
)

// Layered is a tidy tree layout: each depth is a rank, leaves take
// consecutive slots along the rank and every parent is centred over its
// children. It handles forests and is deterministic.
type Layered struct {
	NodeSep float64 // Gap between boxes in the same rank
	RankSep float64 // Gap between ranks
}

// Engine implements [Engine].
func (Layered) Engine() string { return "layered" }

// Layout implements [Oracle].
func (l Layered) Layout(ctx context.Context, req Request) (map[string]graph.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nodeSep, rankSep := l.NodeSep, l.RankSep
	if nodeSep <= 0 {
		nodeSep = DefaultNodeSep
	}
	if rankSep <= 0 {
		rankSep = DefaultRankSep
	}

	width, height := float64(graph.NodeWidth), float64(graph.NodeHeight)
	for _, b := range req.Nodes {
		width, height = max(width, b.Width), max(height, b.Height)
	}
	breadth, depth := height, width
	if req.Direction == graph.TopToBottom {
		breadth, depth = width, height
	}

	known := make(map[string]bool, len(req.Nodes))
	for _, b := range req.Nodes {
		known[b.ID] = true
	}
	children := map[string][]string{}
	hasParent := map[string]bool{}
	for _, e := range req.Edges {
		if !known[e.Source] || !known[e.Target] {
			continue
		}
		children[e.Source] = append(children[e.Source], e.Target)
		hasParent[e.Target] = true
	}

	pos := make(map[string]graph.Position, len(req.Nodes))
	seen := make(map[string]bool, len(req.Nodes))
	slot := 0

	var place func(id string, rank int) (float64, bool)
	place = func(id string, rank int) (float64, bool) {
		if seen[id] {
			return 0, false
		}
		seen[id] = true

		var first, last float64
		placed := 0
		for _, c := range children[id] {
			center, ok := place(c, rank+1)
			if !ok {
				continue
			}
			if placed == 0 {
				first = center
			}
			last = center
			placed++
		}

		var center float64
		if placed == 0 {
			center = float64(slot)*(breadth+nodeSep) + breadth/2
			slot++
		} else {
			center = (first + last) / 2
		}

		along := float64(rank) * (depth + rankSep)
		if req.Direction == graph.TopToBottom {
			pos[id] = graph.Position{X: center - breadth/2, Y: along}
		} else {
			pos[id] = graph.Position{X: along, Y: center - breadth/2}
		}
		return center, true
	}

	for _, b := range req.Nodes {
		if !hasParent[b.ID] {
			place(b.ID, 0)
		}
	}
	// Nodes only reachable through a cycle.
	for _, b := range req.Nodes {
		place(b.ID, 0)
	}
	return pos, nil
}
