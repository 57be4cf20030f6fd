// Package pkg provides the core libraries for jray, which turns a JSON
// document into an editable node diagram.
//
// # Overview
//
// Every JSON value becomes one node, identified by its path from the root.
// Nodes are laid out by a layered layout engine, and edits made on either
// side (the source text or a node in the diagram) are carried over to the
// other without disturbing the positions a user already knows.
//
// # Architecture
//
// The typical data flow through jray:
//
//	JSON source text
//	       ↓
//	  [jsonvalue] package (ordered parse, canonical format)
//	       ↓
//	  [projection] package (one node per value, IDs from [nodeid])
//	       ↓
//	  [layout] package (oracle + position continuity)
//	       ↓
//	  [visibility] package (collapse and expand subtrees)
//	       ↓
//	  DOT/SVG/PNG/JSON via [export], or a live [session]
//
// Edits travel the other way: [edit] writes a raw value into the source at
// a node path, coerced to the type of the value it replaces, and the
// session regenerates the diagram from the new text.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/jray/pkg/session"
//	)
//
//	s := session.New()
//	_ = s.SetText(ctx, `{"server": {"port": 8080}}`)
//	_, _ = s.Edit(ctx, "root.server.port", "9090")
//	snap := s.Snapshot()
//
// # Main Packages
//
// ## Core
//
// [nodeid] - Deterministic node IDs (root.a.0.b) with escaping and parsing.
//
// [jsonvalue] - Ordered JSON values with copy-on-write updates and a
// canonical two-space formatter.
//
// [projection] - Structural projection of a document into nodes and edges.
//
// [layout] - The layout oracle interface, a built-in layered oracle, the
// Graphviz-backed oracle in [layout/graphviz], a caching wrapper and the
// position continuity manager.
//
// [visibility] - Collapse and expand with state carried across
// regenerations.
//
// [edit] - Type-preserving writes from a node back into the source.
//
// [session] - Single-writer editing sessions, typed commands and an
// in-memory store.
//
// ## Surfaces
//
// [export] - DOT, SVG, PNG and JSON output of the visible diagram.
//
// [server] - HTTP API over a session store.
//
// [watch] - Follow a file on disk and feed changes into a session.
//
// [typegen] - TypeScript declarations inferred from a document.
//
// ## Infrastructure
//
// [graph] - Node, edge and snapshot types and their JSON form.
//
// [cache] - Layout cache backends (file, Redis, none).
//
// [config] - TOML configuration.
//
// [errors] - Error codes shared by every package.
//
// [observability] - Hooks for metrics and tracing.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/session/...          # Specific package
//	go test -run Example ./pkg/...     # Examples only
//	JRAY_TEST_REDIS_ADDR=localhost:6379 go test ./pkg/cache/...
//
// [nodeid]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/nodeid
// [jsonvalue]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/jsonvalue
// [projection]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/projection
// [layout]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/layout
// [layout/graphviz]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/layout/graphviz
// [visibility]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/visibility
// [edit]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/edit
// [session]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/session
// [export]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/export
// [server]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/server
// [watch]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/watch
// [typegen]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/typegen
// [graph]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/graph
// [cache]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/jray/pkg/observability
package pkg
