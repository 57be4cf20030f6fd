package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// MarshalSnapshot converts a snapshot to indented JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSnapshot(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot decodes JSON bytes to a snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	return ReadSnapshot(bytes.NewReader(data))
}

// WriteSnapshot writes a snapshot as JSON to an io.Writer.
func WriteSnapshot(s Snapshot, w io.Writer) error {
	if s.Nodes == nil {
		s.Nodes = []Node{}
	}
	if s.Edges == nil {
		s.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a JSON snapshot from an io.Reader.
// Returns an error for dangling edges or an unknown direction.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// WriteSnapshotFile writes a snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteSnapshotFile(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSnapshot(s, f)
}

// ReadSnapshotFile reads a JSON snapshot file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// Validate checks that every edge references known nodes and that the
// direction, when set, is known.
func (s Snapshot) Validate() error {
	if s.Direction != "" && !s.Direction.Valid() {
		return fmt.Errorf("unknown direction %q", s.Direction)
	}
	ids := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if ids[n.ID] {
			return fmt.Errorf("duplicate node %q", n.ID)
		}
		ids[n.ID] = true
	}
	for _, e := range s.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return fmt.Errorf("edge %s references unknown node", e.ID)
		}
	}
	return nil
}

// =============================================================================
// Lookup Helpers
// =============================================================================

// Positions returns each node's position keyed by ID.
func Positions(nodes []Node) map[string]Position {
	out := make(map[string]Position, len(nodes))
	for _, n := range nodes {
		out[n.ID] = n.Position
	}
	return out
}

// Index returns each node's slice index keyed by ID.
func Index(nodes []Node) map[string]int {
	out := make(map[string]int, len(nodes))
	for i, n := range nodes {
		out[n.ID] = i
	}
	return out
}

// Children returns the target IDs of edges grouped by source, preserving
// edge order.
func Children(edges []Edge) map[string][]string {
	out := make(map[string][]string)
	for _, e := range edges {
		out[e.Source] = append(out[e.Source], e.Target)
	}
	return out
}

// Visible returns only the nodes and edges that are not hidden.
func Visible(nodes []Node, edges []Edge) ([]Node, []Edge) {
	vn := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if !n.Hidden {
			vn = append(vn, n)
		}
	}
	ve := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if !e.Hidden {
			ve = append(ve, e)
		}
	}
	return vn, ve
}
