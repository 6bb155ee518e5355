package dot

import (
	"bytes"
	"strings"
)

// ClusterPrefix marks a subgraph as a cluster. Graphviz only draws a
// bounding box around subgraphs whose id starts with this prefix.
const ClusterPrefix = "cluster_"

// Attr is a single key=value attribute.
type Attr struct {
	Key   string
	Value string
}

// A is shorthand for constructing an [Attr].
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Node is a node statement.
type Node struct {
	ID    string
	Attrs []Attr
}

// Attr returns the value of the attribute key and whether it is set.
func (n *Node) Attr(key string) (string, bool) {
	return lookup(n.Attrs, key)
}

// Edge is a directed edge statement.
type Edge struct {
	From  string
	To    string
	Attrs []Attr
}

// Attr returns the value of the attribute key and whether it is set.
func (e *Edge) Attr(key string) (string, bool) {
	return lookup(e.Attrs, key)
}

type stmtKind int

const (
	stmtNode stmtKind = iota
	stmtEdge
	stmtSubgraph
)

type stmt struct {
	kind stmtKind
	node *Node
	edge *Edge
	sub  *Graph
}

// Graph is a digraph or a subgraph scope. A Graph is owned by whoever
// created it until it is attached to a parent with [Graph.AddSubgraph].
// It is not safe for concurrent use.
type Graph struct {
	id       string
	directed bool
	attrs    []Attr
	stmts    []stmt
}

// NewDigraph creates a top-level directed graph.
func NewDigraph(id string, attrs ...Attr) *Graph {
	return &Graph{id: id, directed: true, attrs: attrs}
}

// NewCluster creates a cluster subgraph for name. The subgraph id is name
// with [ClusterPrefix] prepended.
func NewCluster(name string, attrs ...Attr) *Graph {
	return &Graph{id: ClusterPrefix + name, attrs: attrs}
}

// ID returns the graph or subgraph id.
func (g *Graph) ID() string { return g.id }

// IsCluster reports whether g is a cluster subgraph.
func (g *Graph) IsCluster() bool { return strings.HasPrefix(g.id, ClusterPrefix) }

// Attr returns the value of the graph attribute key and whether it is set.
func (g *Graph) Attr(key string) (string, bool) {
	return lookup(g.attrs, key)
}

// AddNode appends a node statement and returns it.
// Repeated ids are emitted again; Graphviz merges their attributes.
func (g *Graph) AddNode(id string, attrs ...Attr) *Node {
	n := &Node{ID: id, Attrs: attrs}
	g.stmts = append(g.stmts, stmt{kind: stmtNode, node: n})
	return n
}

// AddEdge appends a directed edge statement and returns it.
// Edges are never deduplicated.
func (g *Graph) AddEdge(from, to string, attrs ...Attr) *Edge {
	e := &Edge{From: from, To: to, Attrs: attrs}
	g.stmts = append(g.stmts, stmt{kind: stmtEdge, edge: e})
	return e
}

// AddSubgraph attaches sub as a child scope of g at the current position.
func (g *Graph) AddSubgraph(sub *Graph) {
	g.stmts = append(g.stmts, stmt{kind: stmtSubgraph, sub: sub})
}

// Nodes returns the node statements declared directly in g, in order.
func (g *Graph) Nodes() []*Node {
	var out []*Node
	for _, s := range g.stmts {
		if s.kind == stmtNode {
			out = append(out, s.node)
		}
	}
	return out
}

// Edges returns the edge statements declared directly in g, in order.
func (g *Graph) Edges() []*Edge {
	var out []*Edge
	for _, s := range g.stmts {
		if s.kind == stmtEdge {
			out = append(out, s.edge)
		}
	}
	return out
}

// Subgraphs returns the subgraphs attached directly to g, in order.
func (g *Graph) Subgraphs() []*Graph {
	var out []*Graph
	for _, s := range g.stmts {
		if s.kind == stmtSubgraph {
			out = append(out, s.sub)
		}
	}
	return out
}

// Stats counts statements in g and all of its subgraphs.
type Stats struct {
	Nodes    int
	Edges    int
	Clusters int
	Depth    int // deepest cluster nesting level, 0 if there are none
}

// Stats walks g recursively and returns statement counts.
func (g *Graph) Stats() Stats {
	var st Stats
	g.collect(&st, 0)
	return st
}

func (g *Graph) collect(st *Stats, depth int) {
	if g.IsCluster() {
		st.Clusters++
		st.Depth = max(st.Depth, depth)
	}
	for _, s := range g.stmts {
		switch s.kind {
		case stmtNode:
			st.Nodes++
		case stmtEdge:
			st.Edges++
		case stmtSubgraph:
			next := depth
			if s.sub.IsCluster() {
				next++
			}
			s.sub.collect(st, next)
		}
	}
}

// String returns the DOT source for g.
func (g *Graph) String() string {
	var buf bytes.Buffer
	g.write(&buf, 0, g.directed)
	return buf.String()
}

func (g *Graph) write(buf *bytes.Buffer, depth int, directed bool) {
	indent := strings.Repeat("  ", depth)
	inner := indent + "  "

	keyword := "subgraph"
	if depth == 0 {
		keyword = "graph"
		if directed {
			keyword = "digraph"
		}
	}
	buf.WriteString(indent + keyword + " " + quote(g.id) + " {\n")

	for _, a := range g.attrs {
		buf.WriteString(inner + quote(a.Key) + "=" + quote(a.Value) + ";\n")
	}

	edgeOp := " -- "
	if directed {
		edgeOp = " -> "
	}
	for _, s := range g.stmts {
		switch s.kind {
		case stmtNode:
			buf.WriteString(inner + quote(s.node.ID) + fmtAttrs(s.node.Attrs) + ";\n")
		case stmtEdge:
			buf.WriteString(inner + quote(s.edge.From) + edgeOp + quote(s.edge.To) + fmtAttrs(s.edge.Attrs) + ";\n")
		case stmtSubgraph:
			s.sub.write(buf, depth+1, directed)
		}
	}

	buf.WriteString(indent + "}\n")
}

func fmtAttrs(attrs []Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = quote(a.Key) + "=" + quote(a.Value)
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

// quote renders s as a DOT double-quoted string. Quotes and backslashes
// are escaped and newlines become the \n line break. Every other rune,
// tabs and non-ASCII text included, is written as is.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r': // the LF of a CRLF carries the break
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func lookup(attrs []Attr, key string) (string, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
