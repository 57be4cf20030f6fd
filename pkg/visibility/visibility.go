// Package visibility collapses and expands subtrees of a projected diagram.
//
// Whether a node is currently expanded is derived from its first child: if
// that child is visible the node counts as expanded. Collapsing hides the
// whole descendant closure together with every edge touching it; expanding
// reveals one level only, so deeper descendants stay hidden until their own
// parent is expanded.
//
// All functions are pure. They return fresh slices and never modify their
// inputs, positions or display values.
package visibility

import "github.com/matzehuels/jray/pkg/graph"

// Action reports what [Toggle] did.
type Action int

const (
	None Action = iota
	Collapsed
	Expanded
)

func (a Action) String() string {
	switch a {
	case Collapsed:
		return "collapse"
	case Expanded:
		return "expand"
	}
	return "none"
}

// Toggle collapses target if its first child is visible and expands it one
// level otherwise. A target without outgoing edges is left untouched.
func Toggle(nodes []graph.Node, edges []graph.Edge, target string) ([]graph.Node, []graph.Edge) {
	n, e, _ := ToggleAction(nodes, edges, target)
	return n, e
}

// ToggleAction is [Toggle] that also reports the action taken.
func ToggleAction(nodes []graph.Node, edges []graph.Edge, target string) ([]graph.Node, []graph.Edge, Action) {
	outNodes := graph.CloneNodes(nodes)
	outEdges := graph.CloneEdges(edges)

	first, ok := firstChild(edges, target)
	if !ok {
		return outNodes, outEdges, None
	}
	idx := graph.Index(nodes)
	i, ok := idx[first]
	if !ok {
		return outNodes, outEdges, None
	}

	if !nodes[i].Hidden {
		closure := Descendants(edges, target)
		for j := range outNodes {
			if closure[outNodes[j].ID] {
				outNodes[j].Hidden = true
			}
		}
		for j := range outEdges {
			if closure[outEdges[j].Source] || closure[outEdges[j].Target] {
				outEdges[j].Hidden = true
			}
		}
		return outNodes, outEdges, Collapsed
	}

	children := map[string]bool{}
	for j := range outEdges {
		if outEdges[j].Source == target {
			children[outEdges[j].Target] = true
			outEdges[j].Hidden = false
		}
	}
	for j := range outNodes {
		if children[outNodes[j].ID] {
			outNodes[j].Hidden = false
		}
	}
	return outNodes, outEdges, Expanded
}

// IsCollapsed reports whether id has children and its first child is hidden.
func IsCollapsed(nodes []graph.Node, edges []graph.Edge, id string) bool {
	first, ok := firstChild(edges, id)
	if !ok {
		return false
	}
	for _, n := range nodes {
		if n.ID == first {
			return n.Hidden
		}
	}
	return false
}

// Descendants returns every node reachable from id by following edges,
// excluding id itself.
func Descendants(edges []graph.Edge, id string) map[string]bool {
	children := graph.Children(edges)
	visited := map[string]bool{}
	stack := append([]string(nil), children[id]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] || cur == id {
			continue
		}
		visited[cur] = true
		stack = append(stack, children[cur]...)
	}
	return visited
}

// Carry re-applies visibility from a previous diagram to a freshly projected
// one. Nodes that existed before keep their hidden flag. A new node is
// hidden when its parent is hidden or collapsed. Every edge mirrors the
// hidden flag of its target.
func Carry(prev []graph.Node, nodes []graph.Node, edges []graph.Edge) ([]graph.Node, []graph.Edge) {
	outNodes := graph.CloneNodes(nodes)
	outEdges := graph.CloneEdges(edges)
	if len(prev) == 0 {
		return outNodes, outEdges
	}

	was := make(map[string]bool, len(prev))
	for _, n := range prev {
		was[n.ID] = n.Hidden
	}
	parent := make(map[string]string, len(edges))
	for _, e := range edges {
		parent[e.Target] = e.Source
	}

	// Projection order is depth-first, so parents are always resolved first.
	hidden := make(map[string]bool, len(outNodes))
	for i := range outNodes {
		id := outNodes[i].ID
		h, known := was[id]
		if !known {
			if p, ok := parent[id]; ok {
				h = hidden[p] || collapsedBefore(p, was, edges)
			}
		}
		hidden[id] = h
		outNodes[i].Hidden = h
	}
	for i := range outEdges {
		outEdges[i].Hidden = hidden[outEdges[i].Target]
	}
	return outNodes, outEdges
}

// collapsedBefore reports whether parent was collapsed in the previous
// diagram, judged by its first child that already existed there.
func collapsedBefore(parent string, was map[string]bool, edges []graph.Edge) bool {
	if _, known := was[parent]; !known {
		return false
	}
	for _, e := range edges {
		if e.Source != parent {
			continue
		}
		if h, ok := was[e.Target]; ok {
			return h
		}
	}
	return false
}

func firstChild(edges []graph.Edge, id string) (string, bool) {
	for _, e := range edges {
		if e.Source == id {
			return e.Target, true
		}
	}
	return "", false
}
