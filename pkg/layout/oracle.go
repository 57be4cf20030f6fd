package layout

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/jray/pkg/cache"
	"github.com/matzehuels/jray/pkg/graph"
)

// Box is a node footprint handed to an oracle.
type Box struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Link is a directed edge handed to an oracle.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Request is everything an oracle needs to lay out a diagram.
type Request struct {
	Nodes     []Box           `json:"nodes"`
	Edges     []Link          `json:"edges"`
	Direction graph.Direction `json:"direction"`
}

// Oracle computes non-overlapping top-left coordinates for every node of a
// request. Implementations must be deterministic for a fixed request.
type Oracle interface {
	Layout(ctx context.Context, req Request) (map[string]graph.Position, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, req Request) (map[string]graph.Position, error)

// Layout calls f.
func (f OracleFunc) Layout(ctx context.Context, req Request) (map[string]graph.Position, error) {
	return f(ctx, req)
}

// Engine is implemented by oracles that can name their algorithm. The name
// is part of layout cache keys.
type Engine interface {
	Engine() string
}

// EngineName returns o's engine name, or "custom".
func EngineName(o Oracle) string {
	if e, ok := o.(Engine); ok {
		return e.Engine()
	}
	return "custom"
}

// NewRequest builds the oracle request for a diagram. Every node gets the
// fixed footprint; hidden nodes are included so positions do not jump when
// a subtree is expanded.
func NewRequest(nodes []graph.Node, edges []graph.Edge, dir graph.Direction) Request {
	req := Request{
		Nodes:     make([]Box, len(nodes)),
		Edges:     make([]Link, len(edges)),
		Direction: dir,
	}
	for i, n := range nodes {
		req.Nodes[i] = Box{ID: n.ID, Width: graph.NodeWidth, Height: graph.NodeHeight}
	}
	for i, e := range edges {
		req.Edges[i] = Link{Source: e.Source, Target: e.Target}
	}
	return req
}

// Hash returns a stable digest of the request.
func (r Request) Hash() string {
	data, _ := json.Marshal(r)
	return cache.Hash(data)
}
