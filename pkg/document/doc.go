// Package document loads pipeline descriptions from YAML.
//
// # Overview
//
// A pipeline document is a tree of typed components. The root must be a
// pipeline; pipelines contain data, stage and nested pipeline components
// plus the dataflows between them:
//
//	class: pipeline
//	name: variant-calling
//	components:
//	  - class: data
//	    name: reads
//	    attribute: [reference]
//	  - class: stage
//	    name: align
//	    tools: [{name: bwa}, {name: samtools}]
//	dataflows:
//	  - source: reads
//	    destination: align
//	    action: map
//
// # Loading
//
// [Load] reads a file and [Parse] reads any io.Reader. Both return a
// fully typed [*Pipeline] or an error carrying a [errors.Code]:
//
//   - FILE_NOT_FOUND / IO_ERROR when the input cannot be read
//   - PARSE_ERROR when the input is not YAML
//   - VALIDATION_ERROR when the root is not a pipeline
//   - SCHEMA_ERROR listing every missing or malformed field at once
//   - STRUCTURAL_ERROR when a pipeline name repeats, including a pipeline
//     that contains itself through a YAML alias
//
// Schema problems are reported together as [Problems], so a document with
// three broken components yields one error naming all three.
//
// # Dataflow endpoints
//
// Parsing does not resolve dataflow endpoints. [CheckDataflows] reports
// every source or destination that names no data or stage component in
// the document; callers decide whether that is fatal.
//
// [errors.Code]: github.com/matzehuels/pipeline-yaml/pkg/errors
package document
