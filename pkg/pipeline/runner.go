package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/matzehuels/pipeline-yaml/pkg/diagram"
	"github.com/matzehuels/pipeline-yaml/pkg/document"
	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
	"github.com/matzehuels/pipeline-yaml/pkg/observability"
	"github.com/matzehuels/pipeline-yaml/pkg/render"
	"github.com/matzehuels/pipeline-yaml/pkg/viewer"
)

// OpenFunc opens a written artifact for display.
type OpenFunc func(ctx context.Context, path, viewerCmd string) error

// Runner executes runs. It holds no state between runs beyond its
// collaborators.
type Runner struct {
	Logger *log.Logger

	// Open is called in display mode. Defaults to viewer.Open.
	Open OpenFunc

	// ScratchDir returns the directory for display-mode artifacts when no
	// output path is given. Defaults to a fresh directory under os.TempDir.
	ScratchDir func() string
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Logger:     logger,
		Open:       viewer.Open,
		ScratchDir: scratchDir,
	}
}

func scratchDir() string {
	return filepath.Join(os.TempDir(), "pipeline-yaml-"+uuid.NewString())
}

// Execute loads opts.Input and renders it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)
	start := time.Now()
	p, dangling, err := r.load(opts)
	loadTime := time.Since(start)
	components := 0
	if p != nil {
		components, _ = p.Counts()
	}
	hooks.OnLoadComplete(ctx, opts.Input, components, loadTime, err)
	if err != nil {
		return nil, err
	}

	result, err := r.Run(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	result.Dangling = dangling
	result.Stats.LoadTime = loadTime
	return result, nil
}

// load reads and validates the document. Unresolved dataflow endpoints are
// fatal unless opts.AllowDangling is set, in which case they are returned.
func (r *Runner) load(opts Options) (*document.Pipeline, []string, error) {
	p, err := document.Load(opts.Input)
	if err != nil {
		return nil, nil, err
	}

	problems := document.Unresolved(p)
	if len(problems) == 0 {
		return p, nil, nil
	}
	if !opts.AllowDangling {
		return nil, nil, fmt.Errorf("%s: %w", opts.Input, document.CheckDataflows(p))
	}

	dangling := make([]string, len(problems))
	for i, prob := range problems {
		dangling[i] = prob.String()
		r.Logger.Warn("unresolved dataflow endpoint", "at", prob.Path, "line", prob.Line, "problem", prob.Message)
	}
	return p, dangling, nil
}

// Run renders an already loaded pipeline and delivers the artifact.
// The artifact is fully rendered before anything is written.
func (r *Runner) Run(ctx context.Context, p *document.Pipeline, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	components, dataflows := p.Counts()
	r.Logger.Info("loaded pipeline",
		"name", p.Name,
		"components", components,
		"dataflows", dataflows)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()

	g, err := diagram.Build(p, opts.DiagramOptions())
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Format, 0, time.Since(start), err)
		return nil, err
	}
	data, err := render.Render(ctx, g, opts.Format)
	renderTime := time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Format, len(data), renderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	st := g.Stats()
	r.Logger.Info("rendered diagram",
		"format", opts.Format,
		"nodes", st.Nodes,
		"edges", st.Edges,
		"clusters", st.Clusters,
		"size", humanize.Bytes(uint64(len(data))),
		"duration", renderTime)

	result := &Result{
		Name:     p.Name,
		Graph:    g,
		Artifact: data,
		Format:   opts.Format,
		Stats: Stats{
			Components: components,
			Dataflows:  dataflows,
			Nodes:      st.Nodes,
			Edges:      st.Edges,
			Clusters:   st.Clusters,
			RenderTime: renderTime,
		},
	}

	if err := r.deliver(ctx, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Runner) deliver(ctx context.Context, result *Result, opts Options) error {
	dir := ""
	if opts.Mode == ModeDisplay && opts.Output == "" {
		dir = r.ScratchDir()
	}
	path := opts.OutputPath(result.Name, dir)

	if err := writeFile(path, result.Artifact); err != nil {
		return err
	}
	result.Path = path
	r.Logger.Debug("wrote artifact", "path", path, "size", humanize.Bytes(uint64(len(result.Artifact))))
	observability.Pipeline().OnOutput(ctx, opts.Mode, path)

	if opts.Mode != ModeDisplay {
		return nil
	}
	r.Logger.Debug("opening viewer", "path", path)
	if err := r.Open(ctx, path, opts.Viewer); err != nil {
		return fmt.Errorf("display %s: %w", path, err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return perrors.Wrap(perrors.ErrCodeIO, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
