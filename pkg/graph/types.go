package graph

import (
	"fmt"
	"strings"

	"github.com/matzehuels/jray/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Fixed node footprint in diagram units.
const (
	NodeWidth  = 250
	NodeHeight = 100
)

// Display values for containers.
const (
	ObjectDisplay = "{Object}"
	arrayDisplay  = "[Array: %d]"
)

// ArrayDisplay returns the display value of an array with n elements.
func ArrayDisplay(n int) string { return fmt.Sprintf(arrayDisplay, n) }

// =============================================================================
// Kind, Side and Direction
// =============================================================================

// Kind classifies the JSON value behind a node.
type Kind string

const (
	KindScalar Kind = "scalar"
	KindObject Kind = "object"
	KindArray  Kind = "array"
)

// Side is a face of a node box that edges attach to.
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// Direction is the flow direction of the diagram.
type Direction string

const (
	LeftToRight Direction = "LR"
	TopToBottom Direction = "TB"
)

// DefaultDirection is used when nothing else is configured.
const DefaultDirection = LeftToRight

// ParseDirection accepts LR/TB (any case) and the long forms
// left-to-right / top-to-bottom.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lr", "left-to-right", "horizontal":
		return LeftToRight, nil
	case "tb", "top-to-bottom", "vertical":
		return TopToBottom, nil
	}
	return "", errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q (use LR or TB)", s)
}

// Toggle returns the other direction.
func (d Direction) Toggle() Direction {
	if d == TopToBottom {
		return LeftToRight
	}
	return TopToBottom
}

// Sides returns the faces that incoming (target) and outgoing (source)
// edges attach to for this direction.
func (d Direction) Sides() (target, source Side) {
	if d == TopToBottom {
		return SideTop, SideBottom
	}
	return SideLeft, SideRight
}

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool { return d == LeftToRight || d == TopToBottom }

// =============================================================================
// Node, Edge and Snapshot
// =============================================================================

// Position is the top-left corner of a node.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Center returns the midpoint of a node box positioned at p.
func (p Position) Center() Position {
	return Position{X: p.X + NodeWidth/2, Y: p.Y + NodeHeight/2}
}

// Node is one JSON value in the diagram.
type Node struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`                 // Last path segment
	Kind       Kind     `json:"kind"`                  // scalar, object or array
	Value      string   `json:"value"`                 // Display value
	Position   Position `json:"position"`              // Top-left corner
	Hidden     bool     `json:"hidden,omitempty"`      // Collapsed away
	SourceSide Side     `json:"source_side,omitempty"` // Face outgoing edges leave from
	TargetSide Side     `json:"target_side,omitempty"` // Face incoming edges arrive at
}

// IsContainer reports whether the node is an object or array.
func (n *Node) IsContainer() bool { return n.Kind == KindObject || n.Kind == KindArray }

// Edge links a container node to one of its immediate children.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Hidden bool   `json:"hidden,omitempty"`
}

// EdgeID returns the identifier of the edge from source to target.
func EdgeID(source, target string) string { return "e-" + source + "-" + target }

// NewEdge returns a visible edge from source to target.
func NewEdge(source, target string) Edge {
	return Edge{ID: EdgeID(source, target), Source: source, Target: target}
}

// Snapshot is a complete diagram as handed to a render surface.
type Snapshot struct {
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	Direction Direction `json:"direction"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Nodes:     CloneNodes(s.Nodes),
		Edges:     CloneEdges(s.Edges),
		Direction: s.Direction,
	}
}

// CloneNodes returns a copy of nodes; nil stays nil.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	return append([]Node(nil), nodes...)
}

// CloneEdges returns a copy of edges; nil stays nil.
func CloneEdges(edges []Edge) []Edge {
	if edges == nil {
		return nil
	}
	return append([]Edge(nil), edges...)
}
