package dot_test

import (
	"fmt"

	"github.com/matzehuels/pipeline-yaml/pkg/dot"
)

func ExampleGraph_String() {
	g := dot.NewDigraph("P")
	c := dot.NewCluster("P", dot.A("label", "P"))
	c.AddNode("A", dot.A("shape", "rectangle"))
	c.AddEdge("A", "B")
	g.AddSubgraph(c)

	fmt.Print(g.String())
	// Output:
	// digraph "P" {
	//   subgraph "cluster_P" {
	//     "label"="P";
	//     "A" ["shape"="rectangle"];
	//     "A" -> "B";
	//   }
	// }
}
