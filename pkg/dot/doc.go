// Package dot builds Graphviz DOT documents in memory.
//
// # Overview
//
// A [Graph] is an open drawing scope: the top-level digraph or a cluster
// subgraph nested inside it. Nodes, edges and subgraphs are recorded in
// insertion order and emitted in that same order, so the layout engine sees
// statements exactly as the caller produced them.
//
// # Usage
//
//	g := dot.NewDigraph("P", dot.A("compound", "true"))
//	c := dot.NewCluster("P", dot.A("label", "P"), dot.A("color", "blue"))
//	c.AddNode("A", dot.A("shape", "rectangle"))
//	c.AddNode("B", dot.A("shape", "rectangle"))
//	c.AddEdge("A", "B", dot.A("label", "transform"))
//	g.AddSubgraph(c)
//	src := g.String()
//
// Every identifier and attribute value is emitted as a quoted DOT string,
// so names may contain spaces and punctuation. A newline inside a label is
// written as the DOT escape \n and renders as a line break.
package dot
