// Package diagram turns a pipeline document into a Graphviz graph.
//
// # Overview
//
// [Build] walks a [document.Pipeline] depth-first in document order and
// emits into a [dot.Graph]:
//
//   - data components become rectangles, filled red, gold or grey when
//     their attribute is exactly "result", "reference" or "intermediate"
//   - stage components become nodes labeled with the stage name and,
//     in [LabelTools] mode, its tools in parentheses
//   - pipeline components become labeled cluster subgraphs, recursively
//   - dataflows become directed edges, labeled in a small font with their
//     action when one is given
//
// Statement order in the output follows the document exactly; Graphviz
// uses insertion order when it breaks layout ties.
//
// # Options
//
// The [Options] struct controls labels and cluster styling:
//
//   - Labels: [LabelTools] (default) or [LabelName] for stage nodes
//   - FlatRoot: draw the root pipeline's contents without a surrounding cluster
//   - ClusterColor: border color of pipeline clusters (default blue)
//   - EdgeFontSize: font size of dataflow labels (default 7)
//
// [document.Pipeline]: github.com/matzehuels/pipeline-yaml/pkg/document
// [dot.Graph]: github.com/matzehuels/pipeline-yaml/pkg/dot
package diagram
