package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeline-yaml/pkg/buildinfo"
	"github.com/matzehuels/pipeline-yaml/pkg/config"
	"github.com/matzehuels/pipeline-yaml/pkg/observability"
	"github.com/matzehuels/pipeline-yaml/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the program name used for the command and in diagnostics.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for the command.
type CLI struct {
	Logger *log.Logger

	// newRunner builds the pipeline runner. Tests replace it to stub the
	// viewer.
	newRunner func(*log.Logger) *pipeline.Runner
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		newRunner: pipeline.NewRunner,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Hooks returns pipeline hooks that report run events at debug level to
// the logger carried by the run's context, or to the CLI logger.
func (c *CLI) Hooks() observability.PipelineHooks {
	return &logHooks{fallback: c.Logger}
}

// =============================================================================
// Root Command
// =============================================================================

// renderFlags holds the command-line flags. Only flags the user actually
// set override the config file and environment.
type renderFlags struct {
	output        string
	outputDir     string
	format        string
	mode          string
	labels        string
	configPath    string
	viewer        string
	noRootCluster bool
	allowDangling bool
}

// RootCommand creates the root cobra command. It renders the single FILE
// argument.
func (c *CLI) RootCommand() *cobra.Command {
	var f renderFlags

	root := &cobra.Command{
		Use:   appName + " [flags] FILE",
		Short: "Render a pipeline description as a Graphviz diagram",
		Long: `Render a pipeline description as a Graphviz diagram.

FILE is a YAML document whose root has class "pipeline". Data and stage
components become nodes, nested pipelines become labeled clusters, and
dataflows become edges labeled with their action.

Defaults can be set in ~/.config/pipeline-yaml/config.toml or through
PIPELINE_YAML_* environment variables. Flags take precedence over both.`,
		Version:       buildinfo.Get().Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.resolveOptions(cmd, args[0], f)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <output-dir>/<pipeline name>.<format>)")
	root.Flags().StringVar(&f.outputDir, "output-dir", "", "directory for the output file (default: .)")
	root.Flags().StringVarP(&f.format, "format", "f", "", "output format: png (default), svg, jpg, pdf, dot")
	root.Flags().StringVarP(&f.mode, "mode", "m", "", "output mode: write (default), display")
	root.Flags().StringVar(&f.labels, "labels", "", "stage labels: tools (default), name")
	root.Flags().StringVar(&f.configPath, "config", "", "config file (default: ~/.config/pipeline-yaml/config.toml)")
	root.Flags().StringVar(&f.viewer, "viewer", "", "viewer command for display mode")
	root.Flags().BoolVar(&f.noRootCluster, "no-root-cluster", false, "draw the root pipeline without a cluster boundary")
	root.Flags().BoolVar(&f.allowDangling, "allow-dangling", false, "warn instead of failing on unresolved dataflow endpoints")

	return root
}

// =============================================================================
// Options Helpers
// =============================================================================

// resolveOptions layers the config file, the environment and the flags that
// were set on the command line.
func (c *CLI) resolveOptions(cmd *cobra.Command, input string, f renderFlags) (pipeline.Options, error) {
	cfg, err := config.Load(cmd.Context(), f.configPath)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	var over config.Config
	if flags.Changed("output-dir") {
		over.OutputDir = f.outputDir
	}
	if flags.Changed("format") {
		over.Format = f.format
	}
	if flags.Changed("mode") {
		over.Mode = f.mode
	}
	if flags.Changed("labels") {
		over.Labels = f.labels
	}
	if flags.Changed("viewer") {
		over.Viewer = f.viewer
	}
	if flags.Changed("no-root-cluster") {
		rootCluster := !f.noRootCluster
		over.RootCluster = &rootCluster
	}
	if flags.Changed("allow-dangling") {
		over.AllowDangling = &f.allowDangling
	}
	cfg.Merge(over)

	opts := optionsFromConfig(cfg)
	opts.Input = input
	opts.Output = f.output
	opts.Logger = c.Logger
	return opts, nil
}

// optionsFromConfig maps merged config values onto pipeline options.
// Unset values are left for pipeline defaults.
func optionsFromConfig(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		OutputDir:     cfg.OutputDir,
		Format:        cfg.Format,
		Mode:          cfg.Mode,
		Labels:        cfg.Labels,
		FlatRoot:      !config.Bool(cfg.RootCluster, true),
		ClusterColor:  cfg.ClusterColor,
		EdgeFontSize:  cfg.EdgeFontSize,
		AllowDangling: config.Bool(cfg.AllowDangling, false),
		Viewer:        cfg.Viewer,
	}
}

// =============================================================================
// Render
// =============================================================================

// runRender executes the pipeline and reports the artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options) error {
	c.Logger.Debug("rendering", "input", opts.Input, "format", opts.Format, "mode", opts.Mode)
	ctx = contextWithLogger(ctx, c.Logger)
	sw := startStopwatch()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(opts.Input)))
	spinner.Start()

	result, err := c.newRunner(c.Logger).Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	sw.report(c.Logger, "done", "pipeline", result.Name, "path", result.Path)

	printSuccess("Rendered %s", result.Name)
	printFile(result.Path)
	printStats(result.Stats)
	for _, d := range result.Dangling {
		printWarning("unresolved endpoint: %s", d)
	}
	return nil
}
