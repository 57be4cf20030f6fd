package graph

import "strings"

// Match is the result of a successful [Find].
type Match struct {
	Node   Node     `json:"node"`
	Center Position `json:"center"` // Midpoint of the node box, for centring a viewport
}

// Find returns the first node, in projection order, whose label or display
// value contains query case-insensitively. Hidden nodes are searched too.
// An empty or blank query never matches.
func Find(nodes []Node, query string) (Match, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Match{}, false
	}
	for _, n := range nodes {
		if strings.Contains(strings.ToLower(n.Label), q) || strings.Contains(strings.ToLower(n.Value), q) {
			return Match{Node: n, Center: n.Position.Center()}, true
		}
	}
	return Match{}, false
}
