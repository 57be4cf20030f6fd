package layout

import (
	"context"
	"errors"
	"testing"

	jerrors "github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/projection"
)

// countingOracle places node i at (i*10, i*20) and counts calls.
type countingOracle struct {
	calls int
	last  Request
	omit  map[string]bool
	err   error
}

func (o *countingOracle) Layout(_ context.Context, req Request) (map[string]graph.Position, error) {
	o.calls++
	o.last = req
	if o.err != nil {
		return nil, o.err
	}
	out := map[string]graph.Position{}
	for i, b := range req.Nodes {
		if o.omit[b.ID] {
			continue
		}
		out[b.ID] = graph.Position{X: float64(i * 10), Y: float64(i * 20)}
	}
	return out, nil
}

func project(t *testing.T, text string) ([]graph.Node, []graph.Edge) {
	t.Helper()
	nodes, edges, err := projection.ProjectText(text)
	if err != nil {
		t.Fatal(err)
	}
	return nodes, edges
}

func TestApplyFreshLayout(t *testing.T) {
	nodes, edges := project(t, `{"a":1,"b":2}`)
	o := &countingOracle{}
	m := NewManager(o)

	res, err := m.Apply(context.Background(), nodes, edges, nil, graph.LeftToRight, true)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if o.calls != 1 || !res.Consulted {
		t.Errorf("oracle calls = %d, consulted = %v", o.calls, res.Consulted)
	}
	if len(o.last.Nodes) != 3 || o.last.Nodes[0].Width != graph.NodeWidth || o.last.Nodes[0].Height != graph.NodeHeight {
		t.Errorf("request nodes = %+v", o.last.Nodes)
	}
	want := []graph.Position{{X: 400, Y: 0}, {X: 410, Y: 20}, {X: 420, Y: 40}}
	for i, n := range res.Nodes {
		if n.Position != want[i] {
			t.Errorf("%s position = %+v, want %+v", n.ID, n.Position, want[i])
		}
		if n.TargetSide != graph.SideLeft || n.SourceSide != graph.SideRight {
			t.Errorf("%s sides = %s/%s", n.ID, n.TargetSide, n.SourceSide)
		}
	}
	if nodes[0].Position != (graph.Position{}) {
		t.Error("Apply mutated its input")
	}
}

func TestApplyTopToBottomOffset(t *testing.T) {
	nodes, edges := project(t, `{"a":1}`)
	res, err := NewManager(&countingOracle{}).Apply(context.Background(), nodes, edges, nil, graph.TopToBottom, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Nodes[1].Position != (graph.Position{X: 110, Y: 20}) {
		t.Errorf("position = %+v", res.Nodes[1].Position)
	}
	if res.Nodes[1].TargetSide != graph.SideTop || res.Nodes[1].SourceSide != graph.SideBottom {
		t.Errorf("sides = %s/%s", res.Nodes[1].TargetSide, res.Nodes[1].SourceSide)
	}
}

func TestPositionContinuity(t *testing.T) {
	ctx := context.Background()
	m := NewManager(Layered{})

	before, beforeEdges := project(t, `{"a":1,"b":2}`)
	first, err := m.Apply(ctx, before, beforeEdges, nil, graph.LeftToRight, true)
	if err != nil {
		t.Fatal(err)
	}

	o := &countingOracle{}
	m = NewManager(o)
	after, afterEdges := project(t, `{"a":1,"b":3}`)
	second, err := m.Apply(ctx, after, afterEdges, graph.Positions(first.Nodes), graph.LeftToRight, true)
	if err != nil {
		t.Fatal(err)
	}

	old := graph.Positions(first.Nodes)
	for _, n := range second.Nodes {
		if n.Position != old[n.ID] {
			t.Errorf("%s moved from %+v to %+v", n.ID, old[n.ID], n.Position)
		}
	}
	if o.calls != 0 || second.Consulted {
		t.Error("oracle should not be called when every node is known")
	}
	if second.Reused != 3 {
		t.Errorf("Reused = %d, want 3", second.Reused)
	}
}

func TestPreserveOnlyPlacesNewNodes(t *testing.T) {
	nodes, edges := project(t, `{"a":1,"b":2}`)
	previous := map[string]graph.Position{
		"root":   {X: -5, Y: -5},
		"root.a": {X: 1, Y: 1},
	}
	res, err := NewManager(&countingOracle{}).Apply(context.Background(), nodes, edges, previous, graph.LeftToRight, true)
	if err != nil {
		t.Fatal(err)
	}
	got := graph.Positions(res.Nodes)
	if got["root"] != previous["root"] || got["root.a"] != previous["root.a"] {
		t.Errorf("known nodes moved: %+v", got)
	}
	if got["root.b"] != (graph.Position{X: 420, Y: 40}) {
		t.Errorf("root.b = %+v", got["root.b"])
	}
}

func TestNoPreserveRecomputes(t *testing.T) {
	nodes, edges := project(t, `{"a":1}`)
	previous := map[string]graph.Position{"root": {X: -5, Y: -5}, "root.a": {X: 1, Y: 1}}
	o := &countingOracle{}
	res, err := NewManager(o).Apply(context.Background(), nodes, edges, previous, graph.TopToBottom, false)
	if err != nil {
		t.Fatal(err)
	}
	if o.calls != 1 || res.Reused != 0 {
		t.Errorf("calls = %d, reused = %d", o.calls, res.Reused)
	}
	if res.Nodes[0].Position != (graph.Position{X: 100, Y: 0}) {
		t.Errorf("root = %+v", res.Nodes[0].Position)
	}
}

func TestOracleFailureFallsBack(t *testing.T) {
	nodes, edges := project(t, `{"a":1,"b":2}`)
	previous := map[string]graph.Position{"root.a": {X: 7, Y: 8}}

	o := &countingOracle{err: errors.New("boom")}
	res, err := NewManager(o).Apply(context.Background(), nodes, edges, previous, graph.LeftToRight, false)
	if !jerrors.Is(err, jerrors.ErrCodeOracleFailure) {
		t.Fatalf("error = %v, want ORACLE_FAILURE", err)
	}
	if len(res.Nodes) != 3 || len(res.Fallbacks) != 3 {
		t.Fatalf("nodes = %d, fallbacks = %v", len(res.Nodes), res.Fallbacks)
	}
	got := graph.Positions(res.Nodes)
	if got["root.a"] != (graph.Position{X: 7, Y: 8}) {
		t.Errorf("root.a should keep its last-known position, got %+v", got["root.a"])
	}
	if got["root.b"] != (graph.Position{}) {
		t.Errorf("root.b should fall back to the origin, got %+v", got["root.b"])
	}
}

func TestOracleOmissionFallsBack(t *testing.T) {
	nodes, edges := project(t, `{"a":1,"b":2}`)
	o := &countingOracle{omit: map[string]bool{"root.b": true}}
	res, err := NewManager(o).Apply(context.Background(), nodes, edges, nil, graph.LeftToRight, false)
	if !jerrors.Is(err, jerrors.ErrCodeOracleFailure) {
		t.Fatalf("error = %v", err)
	}
	if len(res.Fallbacks) != 1 || res.Fallbacks[0] != "root.b" {
		t.Errorf("Fallbacks = %v", res.Fallbacks)
	}
	if res.Nodes[1].Position != (graph.Position{X: 410, Y: 20}) {
		t.Errorf("root.a = %+v", res.Nodes[1].Position)
	}
}

func TestApplyInvalidDirection(t *testing.T) {
	nodes, edges := project(t, `1`)
	_, err := NewManager(nil).Apply(context.Background(), nodes, edges, nil, "RL", false)
	if !jerrors.Is(err, jerrors.ErrCodeInvalidDirection) {
		t.Errorf("error = %v", err)
	}
}

func TestOffset(t *testing.T) {
	if Offset(graph.LeftToRight) != 400 || Offset(graph.TopToBottom) != 100 {
		t.Errorf("offsets = %v/%v", Offset(graph.LeftToRight), Offset(graph.TopToBottom))
	}
}
