package document

import (
	"fmt"
)

// Endpoints returns the names that a dataflow may reference: every data
// and stage component anywhere in p. Pipelines are drawn as clusters, not
// nodes, so their names are not endpoints.
func Endpoints(p *Pipeline) map[string]bool {
	names := make(map[string]bool)
	var walk func(*Pipeline)
	walk = func(p *Pipeline) {
		for _, c := range p.Components {
			switch c := c.(type) {
			case *Data, *Stage:
				names[c.ComponentName()] = true
			case *Pipeline:
				walk(c)
			}
		}
	}
	walk(p)
	return names
}

// Unresolved lists every dataflow endpoint in p, at any depth, that does not
// name a data or stage component of the document. The result is in
// document order.
func Unresolved(p *Pipeline) Problems {
	names := Endpoints(p)
	var out Problems
	var walk func(p *Pipeline, path string)
	walk = func(p *Pipeline, path string) {
		for i, c := range p.Components {
			if sub, ok := c.(*Pipeline); ok {
				walk(sub, fmt.Sprintf("%s[%d]", join(path, "components"), i))
			}
		}
		for i, f := range p.Dataflows {
			fpath := fmt.Sprintf("%s[%d]", join(path, "dataflows"), i)
			if !names[f.Source] {
				out = append(out, Problem{Path: join(fpath, "source"), Line: f.Line, Message: fmt.Sprintf("unknown component %q", f.Source)})
			}
			if !names[f.Destination] {
				out = append(out, Problem{Path: join(fpath, "destination"), Line: f.Line, Message: fmt.Sprintf("unknown component %q", f.Destination)})
			}
		}
	}
	walk(p, "")
	return out
}

// CheckDataflows returns a VALIDATION_ERROR listing all unresolved dataflow
// endpoints, or nil if every endpoint resolves.
func CheckDataflows(p *Pipeline) error {
	if ps := Unresolved(p); len(ps) > 0 {
		return danglingError(ps)
	}
	return nil
}
