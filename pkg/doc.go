// Package pkg provides the libraries behind pipeline-yaml.
//
// # Overview
//
// pipeline-yaml reads a YAML description of a data processing pipeline and
// draws it as a directed graph. Data and stage components become nodes,
// nested pipelines become labeled clusters, and dataflows become edges.
//
// # Architecture
//
// The data flow through pipeline-yaml:
//
//	pipeline.yaml
//	     ↓
//	[document] (parse, check schema and nesting, resolve endpoints)
//	     ↓
//	[diagram] (walk the pipeline tree into a graph)
//	     ↓
//	[dot] (in-memory DOT graph)
//	     ↓
//	[render] (Graphviz layout: PNG/SVG/JPG/PDF/DOT)
//	     ↓
//	file on disk, or [viewer] in display mode
//
// # Quick Start
//
//	p, err := document.Load("variant_calling.yaml")
//	if err != nil {
//	    return err
//	}
//	g, err := diagram.Build(p, diagram.Options{})
//	if err != nil {
//	    return err
//	}
//	png, err := render.Render(ctx, g, render.FormatPNG)
//
// Or run the whole sequence with [pipeline]:
//
//	result, err := pipeline.NewRunner(logger).Execute(ctx, pipeline.Options{
//	    Input: "variant_calling.yaml",
//	})
//
// # Main Packages
//
// [document] - Typed pipeline model decoded from YAML. Every schema problem
// is reported with its path and line number.
//
// [diagram] - Maps components to nodes and clusters: data fill colors from
// attribute tags, stage labels from tools, edge labels from actions.
//
// [dot] - Minimal DOT graph builder with nested cluster subgraphs.
//
// [render] - Graphviz rendering through go-graphviz.
//
// [pipeline] - Load → build → render → output, shared by every entry point.
//
// [config] - TOML config file and PIPELINE_YAML_* environment defaults.
//
// [errors] - Coded errors (PARSE_ERROR, SCHEMA_ERROR, VALIDATION_ERROR, ...).
//
// [observability] - Hooks for load and render events.
//
// [viewer] - Opens artifacts with the platform viewer.
//
// # Testing
//
//	go test ./...                 # All tests
//	go test ./pkg/document/...    # Specific package
//	go test -run Example ./pkg/...
//
// [document]: https://pkg.go.dev/github.com/matzehuels/pipeline-yaml/pkg/document
// [diagram]: https://pkg.go.dev/github.com/matzehuels/pipeline-yaml/pkg/diagram
// [dot]: https://pkg.go.dev/github.com/matzehuels/pipeline-yaml/pkg/dot
// [render]: https://pkg.go.dev/github.com/matzehuels/pipeline-yaml/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pipeline-yaml/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/pipeline-yaml/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/pipeline-yaml/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pipeline-yaml/pkg/observability
// [viewer]: https://pkg.go.dev/github.com/matzehuels/pipeline-yaml/pkg/viewer
package pkg
