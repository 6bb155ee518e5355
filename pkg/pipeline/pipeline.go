// Package pipeline runs a pipeline document through load → build → render → output.
//
// This package is the single entry point used by the CLI. By centralizing
// the sequence here, validation, rendering and output naming behave the
// same for every caller.
//
// # Stages
//
//  1. Load: read and parse the YAML document, check the root is a pipeline,
//     check the schema and nesting, resolve dataflow endpoints
//  2. Build: walk the document into a Graphviz graph
//  3. Render: lay out the graph and produce the artifact bytes in memory
//  4. Output: write the artifact to disk, and open it in a viewer in
//     display mode
//
// Nothing is written unless every earlier stage succeeded.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:  "variant_calling.yaml",
//	    Format: "png",
//	    Mode:   pipeline.ModeWrite,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Path)
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipeline-yaml/pkg/diagram"
	"github.com/matzehuels/pipeline-yaml/pkg/dot"
	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
	"github.com/matzehuels/pipeline-yaml/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

// Output modes.
const (
	// ModeWrite persists the artifact to disk only.
	ModeWrite = "write"
	// ModeDisplay persists the artifact and opens it in a viewer.
	ModeDisplay = "display"
)

const (
	DefaultFormat = render.DefaultFormat
	DefaultMode   = ModeWrite
	DefaultLabels = string(diagram.LabelTools)
)

// ValidModes is the set of supported output modes.
var ValidModes = map[string]bool{
	ModeWrite:   true,
	ModeDisplay: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one run.
type Options struct {
	// Input is the path of the pipeline document.
	Input string

	// Output is an explicit artifact path. When empty the artifact is named
	// after the root pipeline: <OutputDir>/<name>.<Format> in write mode, or
	// a scratch directory in display mode.
	Output    string
	OutputDir string

	Format string
	Mode   string

	// Diagram options
	Labels       string
	FlatRoot     bool
	ClusterColor string
	EdgeFontSize int

	// AllowDangling logs unresolved dataflow endpoints as warnings and
	// passes them to Graphviz instead of failing.
	AllowDangling bool

	// Viewer overrides the platform viewer command in display mode.
	Viewer string

	// Runtime options
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a run.
type Result struct {
	// Name is the root pipeline's name.
	Name string

	// Graph is the diagram that was rendered.
	Graph *dot.Graph

	// Artifact holds the rendered bytes.
	Artifact []byte

	// Format of Artifact.
	Format string

	// Path is where Artifact was written.
	Path string

	// Dangling lists unresolved dataflow endpoints that were let through.
	Dangling []string

	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	Components int
	Dataflows  int
	Nodes      int
	Edges      int
	Clusters   int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateMode checks that a mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return perrors.New(perrors.ErrCodeInvalidMode, "invalid mode: %q (must be 'write' or 'display')", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return perrors.New(perrors.ErrCodeIO, "input file is required")
	}

	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Labels == "" {
		o.Labels = DefaultLabels
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := render.ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	dopts := o.DiagramOptions()
	if err := dopts.Validate(); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// DiagramOptions returns the options for diagram construction with
// defaults applied.
func (o *Options) DiagramOptions() diagram.Options {
	d := diagram.Options{
		Labels:       diagram.LabelMode(o.Labels),
		FlatRoot:     o.FlatRoot,
		ClusterColor: o.ClusterColor,
		EdgeFontSize: o.EdgeFontSize,
	}
	d.SetDefaults()
	return d
}

// OutputPath returns the path for an artifact of the root pipeline name
// when no explicit Output is set. dir overrides OutputDir when non-empty.
func (o *Options) OutputPath(name, dir string) string {
	if o.Output != "" {
		return o.Output
	}
	if dir == "" {
		dir = o.OutputDir
	}
	return filepath.Join(dir, FileName(name, o.Format))
}

// FileName derives an artifact file name from a pipeline name. Path
// separators are replaced so the name always stays inside its directory.
func FileName(name, format string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
	if safe == "" || safe == "." || safe == ".." {
		safe = "pipeline"
	}
	return safe + "." + format
}
