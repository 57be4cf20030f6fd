// Package graph defines the diagram a JSON document is projected into.
//
// This package is the wire format shared by every render surface: the HTTP
// API, the terminal explorer, snapshot files and the layout cache all speak
// in terms of [Node], [Edge] and [Snapshot].
//
// # Core Types
//
//   - [Node]: one JSON value with its label, display text, position and
//     visibility
//   - [Edge]: a parent to child link, identified as e-<source>-<target>
//   - [Snapshot]: a complete, self-consistent diagram plus its [Direction]
//
// # Geometry
//
// Every node occupies a fixed [NodeWidth] by [NodeHeight] footprint. A
// [Position] is the top-left corner of that footprint. Which faces of the
// box edges attach to is derived from the flow [Direction] alone:
//
//	graph.LeftToRight   // target Left, source Right
//	graph.TopToBottom   // target Top, source Bottom
//
// # Serialization
//
// Snapshots use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "root", "label": "root", "kind": "object", ...}],
//	  "edges": [{"id": "e-root-root.a", "source": "root", "target": "root.a"}],
//	  "direction": "LR"
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalSnapshot(s)        // Snapshot → []byte
//	s, _ := graph.UnmarshalSnapshot(data)      // []byte → Snapshot
//	graph.WriteSnapshotFile(s, "diagram.json") // Snapshot → File
//	s, _ = graph.ReadSnapshotFile("diagram.json")
//
// # Concurrency
//
// Values in this package are plain data. Functions never mutate their
// arguments; callers that share a slice across goroutines must copy it.
package graph
