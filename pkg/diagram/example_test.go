package diagram_test

import (
	"fmt"

	"github.com/matzehuels/pipeline-yaml/pkg/diagram"
	"github.com/matzehuels/pipeline-yaml/pkg/document"
)

func ExampleBuild() {
	p, err := document.ParseBytes([]byte(`
class: pipeline
name: P
components:
  - {class: data, name: A, attribute: [reference]}
  - {class: data, name: B, attribute: [result]}
dataflows:
  - {source: A, destination: B, action: transform}
`))
	if err != nil {
		panic(err)
	}

	g, err := diagram.Build(p, diagram.Options{})
	if err != nil {
		panic(err)
	}
	fmt.Print(g.String())
	// Output:
	// digraph "P" {
	//   "compound"="true";
	//   subgraph "cluster_P" {
	//     "label"="P";
	//     "color"="blue";
	//     "compound"="true";
	//     "A" ["shape"="rectangle", "style"="filled", "fillcolor"="gold"];
	//     "B" ["shape"="rectangle", "style"="filled", "fillcolor"="red"];
	//     "A" -> "B" ["label"="transform", "fontsize"="7"];
	//   }
	// }
}
