package document

import "strings"

// Class discriminates component kinds.
type Class string

// Component classes.
const (
	ClassData     Class = "data"
	ClassStage    Class = "stage"
	ClassPipeline Class = "pipeline"
)

// Data attribute tags that select a fill color.
const (
	AttrResult       = "result"
	AttrReference    = "reference"
	AttrIntermediate = "intermediate"
)

// Component is a node in the pipeline tree: one of [*Data], [*Stage] or
// [*Pipeline]. The set is closed; switch on the concrete type.
type Component interface {
	Class() Class
	ComponentName() string
	isComponent()
}

// Data is a data artifact flowing through the pipeline.
type Data struct {
	Name      string
	Attribute []string // ordered tags, e.g. "result", "reference"
	Line      int      // source line, 0 if built in code
}

// Stage is a processing step run by one or more tools.
type Stage struct {
	Name        string
	Description string
	Tools       []Tool
	Line        int
}

// Tool is a program used by a stage.
type Tool struct {
	Name string
}

// Pipeline groups components and the dataflows between them.
type Pipeline struct {
	Name        string
	Description string
	Components  []Component
	Dataflows   []Dataflow
	Line        int
}

// Dataflow is a directed edge between two named components.
type Dataflow struct {
	Source      string
	Destination string
	Action      string // optional edge label
	Line        int
}

func (*Data) Class() Class     { return ClassData }
func (*Stage) Class() Class    { return ClassStage }
func (*Pipeline) Class() Class { return ClassPipeline }

func (d *Data) ComponentName() string     { return d.Name }
func (s *Stage) ComponentName() string    { return s.Name }
func (p *Pipeline) ComponentName() string { return p.Name }

func (*Data) isComponent()     {}
func (*Stage) isComponent()    {}
func (*Pipeline) isComponent() {}

// JoinedAttribute returns the attribute tags joined by newlines. Fill
// colors are chosen by comparing this string for equality with a single
// tag, so a data component with several tags never matches one.
func (d *Data) JoinedAttribute() string {
	return strings.Join(d.Attribute, "\n")
}

// ToolNames returns the names of the stage's tools in order.
func (s *Stage) ToolNames() []string {
	names := make([]string, len(s.Tools))
	for i, t := range s.Tools {
		names[i] = t.Name
	}
	return names
}

// Counts returns the number of components and dataflows in p at every
// depth. Nested pipelines count as components themselves.
func (p *Pipeline) Counts() (components, dataflows int) {
	components = len(p.Components)
	dataflows = len(p.Dataflows)
	for _, c := range p.Components {
		if sub, ok := c.(*Pipeline); ok {
			sc, sd := sub.Counts()
			components += sc
			dataflows += sd
		}
	}
	return components, dataflows
}
