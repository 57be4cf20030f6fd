// Package projection converts a JSON value into a flat node and edge list.
//
// The walk is depth-first from the document root. Object members are
// visited in insertion order and array elements in ascending index order,
// so the output order is a pure function of the document. Each value
// becomes exactly one [graph.Node] identified by its [nodeid] path, and each
// non-root value gets exactly one [graph.Edge] from its parent, so the
// result is always a tree rooted at [nodeid.Root].
//
// Positions, visibility and connector sides are left at their zero values;
// they are owned by the layout and visibility packages.
package projection

import (
	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/jsonvalue"
	"github.com/matzehuels/jray/pkg/nodeid"
)

// Project walks v and returns one node per value and one edge per non-root
// value.
func Project(v jsonvalue.Value) ([]graph.Node, []graph.Edge) {
	p := projector{}
	p.visit("", nodeid.Root, nodeid.Key(nodeid.Root), v)
	return p.nodes, p.edges
}

// ProjectText parses text and projects it. On a parse failure it returns an
// empty graph and the INVALID_JSON error; callers keep their previous graph.
func ProjectText(text string) ([]graph.Node, []graph.Edge, error) {
	v, err := jsonvalue.Parse(text)
	if err != nil {
		return []graph.Node{}, []graph.Edge{}, err
	}
	nodes, edges := Project(v)
	return nodes, edges, nil
}

// Kind classifies a JSON value for display.
func Kind(v jsonvalue.Value) graph.Kind {
	switch v.Kind() {
	case jsonvalue.KindObject:
		return graph.KindObject
	case jsonvalue.KindArray:
		return graph.KindArray
	}
	return graph.KindScalar
}

// DisplayValue returns the text shown inside a node: the stringified scalar,
// "[Array: N]" or "{Object}".
func DisplayValue(v jsonvalue.Value) string {
	switch v.Kind() {
	case jsonvalue.KindObject:
		return graph.ObjectDisplay
	case jsonvalue.KindArray:
		return graph.ArrayDisplay(v.Len())
	}
	return v.Display()
}

type projector struct {
	nodes []graph.Node
	edges []graph.Edge
}

func (p *projector) visit(parent, label string, seg nodeid.Segment, v jsonvalue.Value) {
	id := nodeid.Identify(parent, seg)
	p.nodes = append(p.nodes, graph.Node{
		ID:    id,
		Label: label,
		Kind:  Kind(v),
		Value: DisplayValue(v),
	})
	if parent != "" {
		p.edges = append(p.edges, graph.NewEdge(parent, id))
	}

	switch v.Kind() {
	case jsonvalue.KindObject:
		for _, m := range v.Members() {
			p.visit(id, m.Key, nodeid.Key(m.Key), m.Value)
		}
	case jsonvalue.KindArray:
		for i, e := range v.Elems() {
			seg := nodeid.Index(i)
			p.visit(id, seg.String(), seg, e)
		}
	}
}
