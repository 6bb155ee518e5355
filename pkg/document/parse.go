package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
)

// Load reads the YAML file at path and returns its root pipeline.
//
// A missing file yields FILE_NOT_FOUND, any other read failure IO_ERROR.
// The remaining errors are those of [ParseBytes].
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "read %s", path)
	}
	p, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse reads a YAML document from r and returns its root pipeline.
// Parse does not close r.
func Parse(r io.Reader) (*Pipeline, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "read document")
	}
	return ParseBytes(buf.Bytes())
}

// ParseBytes decodes a YAML document into a typed pipeline tree.
//
// The root class is checked before anything else, so a document whose root
// is not a pipeline always fails with [MsgNotPipeline]. The rest of the
// tree is then checked in full and every schema problem is reported in a
// single error.
func ParseBytes(data []byte) (*Pipeline, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeParse, err, "parse YAML")
	}
	if doc.Kind == 0 || (doc.Kind == yaml.DocumentNode && len(doc.Content) == 0) {
		return nil, perrors.New(perrors.ErrCodeParse, "empty document")
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		root = root.Content[0]
	}
	root = resolve(root)
	if root.Kind != yaml.MappingNode {
		return nil, errNotPipeline()
	}
	if class := field(root, "class"); class == nil || resolve(class).Kind != yaml.ScalarNode || resolve(class).Value != string(ClassPipeline) {
		return nil, errNotPipeline()
	}

	d := newDecoder()
	p := d.pipeline(root, "")
	if len(d.structural) > 0 {
		return nil, structuralError(d.structural)
	}
	if len(d.problems) > 0 {
		return nil, schemaError(d.problems)
	}
	return p, nil
}

// decoder walks a yaml.Node tree. It keeps going after a problem so that all
// of them are reported at once.
type decoder struct {
	problems   Problems
	structural Problems
	pipelines  map[string]string     // pipeline name -> path where first declared
	active     map[*yaml.Node]string // pipeline nodes on the current path -> name
}

func newDecoder() *decoder {
	return &decoder{
		pipelines: make(map[string]string),
		active:    make(map[*yaml.Node]string),
	}
}

func (d *decoder) addf(n *yaml.Node, path, format string, args ...any) {
	d.problems = append(d.problems, Problem{Path: path, Line: n.Line, Message: fmt.Sprintf(format, args...)})
}

func (d *decoder) pipeline(n *yaml.Node, path string) *Pipeline {
	if name, ok := d.active[n]; ok {
		d.structural = append(d.structural, Problem{
			Path: path, Line: n.Line,
			Message: fmt.Sprintf("pipeline %q contains itself", name),
		})
		return nil
	}

	p := &Pipeline{Line: n.Line}
	p.Name = d.name(n, path)
	p.Description = d.str(n, "description", path, false)

	if p.Name != "" {
		if first, seen := d.pipelines[p.Name]; seen {
			d.structural = append(d.structural, Problem{
				Path: path, Line: n.Line,
				Message: fmt.Sprintf("pipeline name %q already used at %s", p.Name, displayPath(first)),
			})
			return nil
		}
		d.pipelines[p.Name] = path
	}

	d.active[n] = p.Name
	defer delete(d.active, n)

	declared := make(map[string]int)
	for i, c := range d.seq(n, "components", path) {
		cpath := fmt.Sprintf("%s[%d]", join(path, "components"), i)
		comp := d.component(c, cpath)
		if comp == nil {
			continue
		}
		if name := comp.ComponentName(); name != "" {
			if line, dup := declared[name]; dup {
				d.addf(c, cpath, "duplicate component name %q (first declared on line %d)", name, line)
			} else {
				declared[name] = resolve(c).Line
			}
		}
		p.Components = append(p.Components, comp)
	}

	for i, f := range d.seq(n, "dataflows", path) {
		fpath := fmt.Sprintf("%s[%d]", join(path, "dataflows"), i)
		if flow, ok := d.dataflow(f, fpath); ok {
			p.Dataflows = append(p.Dataflows, flow)
		}
	}

	return p
}

func (d *decoder) component(n *yaml.Node, path string) Component {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		d.addf(n, path, "component must be a mapping")
		return nil
	}

	class := d.str(n, "class", path, true)
	switch Class(class) {
	case "":
		return nil
	case ClassData:
		return &Data{
			Name:      d.name(n, path),
			Attribute: d.strings(n, "attribute", path),
			Line:      n.Line,
		}
	case ClassStage:
		return &Stage{
			Name:        d.name(n, path),
			Description: d.str(n, "description", path, false),
			Tools:       d.tools(n, path),
			Line:        n.Line,
		}
	case ClassPipeline:
		if p := d.pipeline(n, path); p != nil {
			return p
		}
		return nil
	default:
		d.addf(field(n, "class"), join(path, "class"), "unknown class %q (want data, stage or pipeline)", class)
		return nil
	}
}

func (d *decoder) dataflow(n *yaml.Node, path string) (Dataflow, bool) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		d.addf(n, path, "dataflow must be a mapping")
		return Dataflow{}, false
	}
	flow := Dataflow{
		Source:      d.str(n, "source", path, true),
		Destination: d.str(n, "destination", path, true),
		Action:      d.str(n, "action", path, false),
		Line:        n.Line,
	}
	return flow, flow.Source != "" && flow.Destination != ""
}

func (d *decoder) tools(n *yaml.Node, path string) []Tool {
	var tools []Tool
	for i, t := range d.seq(n, "tools", path) {
		tpath := fmt.Sprintf("%s[%d]", join(path, "tools"), i)
		t = resolve(t)
		switch t.Kind {
		case yaml.MappingNode:
			if name := d.name(t, tpath); name != "" {
				tools = append(tools, Tool{Name: name})
			}
		default:
			d.addf(t, tpath, "tool must be a mapping with a name")
		}
	}
	return tools
}

// name reads and validates the required name field of m.
func (d *decoder) name(m *yaml.Node, path string) string {
	v := d.str(m, "name", path, true)
	if v == "" {
		return ""
	}
	if err := perrors.ValidateName(v); err != nil {
		d.addf(field(m, "name"), join(path, "name"), "%s", perrors.UserMessage(err))
		return ""
	}
	return v
}

// str reads a scalar field of m. Missing or null fields yield "".
func (d *decoder) str(m *yaml.Node, key, path string, required bool) string {
	v := field(m, key)
	if v == nil || isNull(v) {
		if required {
			d.addf(m, join(path, key), "missing required field")
		}
		return ""
	}
	if v.Kind != yaml.ScalarNode {
		d.addf(v, join(path, key), "must be a string")
		return ""
	}
	if required && v.Value == "" {
		d.addf(v, join(path, key), "must not be empty")
	}
	return v.Value
}

// strings reads a list of scalars. A single scalar is accepted as a
// one-element list.
func (d *decoder) strings(m *yaml.Node, key, path string) []string {
	v := field(m, key)
	if v == nil || isNull(v) {
		return nil
	}
	switch v.Kind {
	case yaml.ScalarNode:
		return []string{v.Value}
	case yaml.SequenceNode:
		out := make([]string, 0, len(v.Content))
		for i, item := range v.Content {
			item = resolve(item)
			if item.Kind != yaml.ScalarNode {
				d.addf(item, fmt.Sprintf("%s[%d]", join(path, key), i), "must be a string")
				continue
			}
			out = append(out, item.Value)
		}
		return out
	default:
		d.addf(v, join(path, key), "must be a list of strings")
		return nil
	}
}

// seq returns the items of a sequence field. Missing or null fields are
// treated as empty.
func (d *decoder) seq(m *yaml.Node, key, path string) []*yaml.Node {
	v := field(m, key)
	if v == nil || isNull(v) {
		return nil
	}
	if v.Kind != yaml.SequenceNode {
		d.addf(v, join(path, key), "must be a list")
		return nil
	}
	return v.Content
}

// field returns the resolved value node for key in mapping m, or nil.
func field(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return resolve(m.Content[i+1])
		}
	}
	return nil
}

// resolve follows aliases to the anchored node.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "document root"
	}
	return path
}
