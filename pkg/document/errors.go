package document

import (
	"fmt"
	"strings"

	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
)

// MsgNotPipeline is the fixed message for a document whose root is not a
// pipeline.
const MsgNotPipeline = "Top level is not a pipeline definition"

// Problem is a single defect found in a document.
type Problem struct {
	Path    string // field path, e.g. "components[2].tools[0].name"
	Line    int    // 1-based source line, 0 if unknown
	Message string
}

func (p Problem) String() string {
	path := p.Path
	if path == "" {
		path = "document"
	}
	if p.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", p.Line, path, p.Message)
	}
	return path + ": " + p.Message
}

// Problems is a list of defects reported together.
type Problems []Problem

func (ps Problems) Error() string {
	switch len(ps) {
	case 0:
		return "no problems"
	case 1:
		return ps[0].String()
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%d problems: %s", len(ps), strings.Join(parts, "; "))
}

func errNotPipeline() error {
	return perrors.New(perrors.ErrCodeValidation, MsgNotPipeline)
}

func schemaError(ps Problems) error {
	return perrors.Wrap(perrors.ErrCodeSchema, ps, "invalid pipeline document")
}

func structuralError(ps Problems) error {
	return perrors.Wrap(perrors.ErrCodeStructural, ps, "invalid pipeline nesting")
}

func danglingError(ps Problems) error {
	return perrors.Wrap(perrors.ErrCodeValidation, ps, "unresolved dataflow endpoints")
}
