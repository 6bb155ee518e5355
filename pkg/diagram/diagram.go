package diagram

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/pipeline-yaml/pkg/document"
	"github.com/matzehuels/pipeline-yaml/pkg/dot"
	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
)

// LabelMode selects how stage nodes are labeled.
type LabelMode string

const (
	// LabelTools labels a stage "name\n(tool1\ntool2)".
	LabelTools LabelMode = "tools"
	// LabelName labels a stage with its name only.
	LabelName LabelMode = "name"
)

const (
	DefaultClusterColor = "blue"
	DefaultEdgeFontSize = 7
)

// Fill colors for data components.
const (
	ColorResult       = "red"
	ColorReference    = "gold"
	ColorIntermediate = "grey"
)

// Options configures diagram generation.
type Options struct {
	Labels       LabelMode
	FlatRoot     bool
	ClusterColor string
	EdgeFontSize int
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Labels == "" {
		o.Labels = LabelTools
	}
	if o.ClusterColor == "" {
		o.ClusterColor = DefaultClusterColor
	}
	if o.EdgeFontSize == 0 {
		o.EdgeFontSize = DefaultEdgeFontSize
	}
}

// Validate reports invalid option values.
func (o *Options) Validate() error {
	switch o.Labels {
	case LabelTools, LabelName:
	default:
		return perrors.New(perrors.ErrCodeInvalidLabels, "invalid labels: %q (must be 'tools' or 'name')", o.Labels)
	}
	if err := perrors.ValidateColor(o.ClusterColor); err != nil {
		return err
	}
	if o.EdgeFontSize < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "edge font size must be positive, got %d", o.EdgeFontSize)
	}
	return nil
}

// Build converts p into a directed graph named after p.
//
// Build returns a STRUCTURAL_ERROR if a pipeline name occurs more than once
// in the tree, which includes a pipeline that contains itself.
func Build(p *document.Pipeline, opts Options) (*dot.Graph, error) {
	if p == nil {
		return nil, perrors.New(perrors.ErrCodeInternal, "nil pipeline")
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	g := dot.NewDigraph(p.Name, dot.A("compound", "true"))
	w := &walker{opts: opts, visited: make(map[string]bool), homes: homes(p)}

	if opts.FlatRoot {
		w.visited[p.Name] = true
		w.enter(p.Name, g)
		if err := w.components(g, p.Components); err != nil {
			return nil, err
		}
		w.dataflows(p.Dataflows)
		return g, nil
	}

	if err := w.pipeline(g, p); err != nil {
		return nil, err
	}
	return g, nil
}

type walker struct {
	opts    Options
	visited map[string]bool // pipeline names already opened as clusters
	homes   map[string][]string

	// Open pipelines, outermost first, and the graph each one draws into.
	path   []string
	scopes []*dot.Graph
}

func (w *walker) enter(name string, g *dot.Graph) {
	w.path = append(w.path, name)
	w.scopes = append(w.scopes, g)
}

func (w *walker) leave() {
	w.path = w.path[:len(w.path)-1]
	w.scopes = w.scopes[:len(w.scopes)-1]
}

// scope returns the graph an edge between from and to is written into:
// the innermost open pipeline that declares both endpoints, directly or
// through a nested pipeline. An edge statement adds its endpoints to the
// subgraph it appears in, so writing it any deeper would pull an outer
// node into an inner cluster. Unknown endpoints do not widen the scope.
func (w *walker) scope(from, to string) *dot.Graph {
	depth := len(w.path)
	for _, name := range []string{from, to} {
		if home, ok := w.homes[name]; ok {
			depth = min(depth, sharedPrefix(w.path, home))
		}
	}
	return w.scopes[max(depth, 1)-1]
}

func sharedPrefix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// homes maps each data and stage name to the names of the pipelines
// enclosing its first declaration, outermost first.
func homes(root *document.Pipeline) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[*document.Pipeline]bool)
	var walk func(p *document.Pipeline, path []string)
	walk = func(p *document.Pipeline, path []string) {
		if seen[p] {
			return
		}
		seen[p] = true
		path = append(slices.Clip(path), p.Name)
		for _, c := range p.Components {
			if sub, ok := c.(*document.Pipeline); ok {
				walk(sub, path)
				continue
			}
			if _, ok := out[c.ComponentName()]; !ok {
				out[c.ComponentName()] = path
			}
		}
	}
	walk(root, nil)
	return out
}

func (w *walker) pipeline(parent *dot.Graph, p *document.Pipeline) error {
	if w.visited[p.Name] {
		return perrors.New(perrors.ErrCodeStructural, "pipeline %q appears more than once", p.Name)
	}
	w.visited[p.Name] = true

	sub := dot.NewCluster(p.Name,
		dot.A("label", p.Name),
		dot.A("color", w.opts.ClusterColor),
		dot.A("compound", "true"),
	)
	w.enter(p.Name, sub)
	defer w.leave()
	if err := w.components(sub, p.Components); err != nil {
		return err
	}
	w.dataflows(p.Dataflows)
	parent.AddSubgraph(sub)
	return nil
}

func (w *walker) components(g *dot.Graph, cs []document.Component) error {
	for _, c := range cs {
		switch c := c.(type) {
		case *document.Data:
			g.AddNode(c.Name, dataAttrs(c)...)
		case *document.Stage:
			g.AddNode(c.Name, dot.A("label", StageLabel(c, w.opts.Labels)))
		case *document.Pipeline:
			if err := w.pipeline(g, c); err != nil {
				return err
			}
		default:
			return perrors.New(perrors.ErrCodeInternal, "unsupported component %T", c)
		}
	}
	return nil
}

func (w *walker) dataflows(flows []document.Dataflow) {
	size := strconv.Itoa(w.opts.EdgeFontSize)
	for _, f := range flows {
		g := w.scope(f.Source, f.Destination)
		if f.Action == "" {
			g.AddEdge(f.Source, f.Destination)
			continue
		}
		g.AddEdge(f.Source, f.Destination, dot.A("label", f.Action), dot.A("fontsize", size))
	}
}

func dataAttrs(d *document.Data) []dot.Attr {
	attrs := []dot.Attr{dot.A("shape", "rectangle")}
	if fill := FillColor(d); fill != "" {
		attrs = append(attrs, dot.A("style", "filled"), dot.A("fillcolor", fill))
	}
	return attrs
}

// FillColor returns the fill color for a data component, or "" for an
// unfilled rectangle. The joined attribute must equal a single tag exactly.
func FillColor(d *document.Data) string {
	switch d.JoinedAttribute() {
	case document.AttrResult:
		return ColorResult
	case document.AttrReference:
		return ColorReference
	case document.AttrIntermediate:
		return ColorIntermediate
	}
	return ""
}

// StageLabel returns the node label for a stage.
func StageLabel(s *document.Stage, mode LabelMode) string {
	if mode == LabelName || len(s.Tools) == 0 {
		return s.Name
	}
	return s.Name + "\n(" + strings.Join(s.ToolNames(), "\n") + ")"
}
