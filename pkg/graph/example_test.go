package graph_test

import (
	"fmt"

	"github.com/matzehuels/jray/pkg/graph"
)

func ExampleFind() {
	nodes := []graph.Node{
		{ID: "root", Label: "root", Kind: graph.KindObject, Value: graph.ObjectDisplay},
		{ID: "root.status", Label: "status", Kind: graph.KindScalar, Value: "ready", Position: graph.Position{X: 400, Y: 0}},
	}

	m, ok := graph.Find(nodes, "READY")
	fmt.Println(ok, m.Node.ID, m.Center.X, m.Center.Y)
	// Output:
	// true root.status 525 50
}

func ExampleDirection_Sides() {
	for _, d := range []graph.Direction{graph.LeftToRight, graph.TopToBottom} {
		target, source := d.Sides()
		fmt.Printf("%s: target=%s source=%s\n", d, target, source)
	}
	// Output:
	// LR: target=left source=right
	// TB: target=top source=bottom
}
