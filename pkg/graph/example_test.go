package graph_test

import (
	"errors"
	"fmt"

	"github.com/edgeloom/edgeloom/pkg/graph"
)

func Example() {
	g := graph.New("deploy")
	g.AddNode(graph.Node{ID: "build"})
	g.AddNode(graph.Node{ID: "ship", Label: "Ship it"})
	g.AddEdge(graph.Edge{From: "build", To: "ship", Label: "ok"})

	fmt.Print(graph.ToDOT(g))
	// Output:
	// digraph "deploy" {
	//   "build";
	//   "ship" [label="Ship it"];
	//   "build" -> "ship" [label="ok"];
	// }
}

func ExampleUnmarshal() {
	doc := `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"C"}]}`

	_, err := graph.Unmarshal([]byte(doc))
	fmt.Println(errors.Is(err, graph.ErrUnknownTargetNode))
	fmt.Println(err)
	// Output:
	// true
	// unknown target node: "C"
}
