package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipeline-yaml/pkg/config"
	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
	"github.com/matzehuels/pipeline-yaml/pkg/pipeline"
)

const sampleDoc = `class: pipeline
name: P
components:
  - class: data
    name: A
    attribute: [reference]
  - class: data
    name: B
    attribute: [result]
dataflows:
  - source: A
    destination: B
    action: transform
`

// setup isolates the test from the user's config and environment and
// captures status output.
func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if k, _, _ := strings.Cut(kv, "="); strings.HasPrefix(k, "PIPELINE_YAML_") {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}

	var out bytes.Buffer
	oldOut, oldSpin := stdout, spinnerOut
	stdout, spinnerOut = &out, io.Discard
	t.Cleanup(func() { stdout, spinnerOut = oldOut, oldSpin })
	return &out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(c *CLI, args ...string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommand_Write(t *testing.T) {
	out := setup(t)
	dir := t.TempDir()

	c := New(io.Discard, LogInfo)
	if err := execute(c, writeFile(t, "p.yaml", sampleDoc), "-f", "dot", "--output-dir", dir); err != nil {
		t.Fatalf("execute: %v", err)
	}

	path := filepath.Join(dir, "P.dot")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if !strings.Contains(string(data), `"A" -> "B"`) {
		t.Errorf("unexpected artifact:\n%s", data)
	}

	status := out.String()
	if !strings.Contains(status, "Rendered P") {
		t.Errorf("status missing success line: %q", status)
	}
	if !strings.Contains(status, path) {
		t.Errorf("status missing artifact path: %q", status)
	}
}

func TestRootCommand_FileOnly(t *testing.T) {
	setup(t)
	input := writeFile(t, "p.yaml", sampleDoc)
	dir := t.TempDir()
	t.Chdir(dir)

	c := New(io.Discard, LogInfo)
	if err := execute(c, input); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "P.png"))
	if err != nil {
		t.Fatalf("FILE alone should write P.png to the working directory: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("artifact is not a PNG")
	}
}

func TestRootCommand_Args(t *testing.T) {
	setup(t)
	c := New(io.Discard, LogInfo)

	if err := execute(c); err == nil {
		t.Error("expected error without FILE")
	}
	if err := execute(c, "a.yaml", "b.yaml"); err == nil {
		t.Error("expected error with two files")
	}
}

func TestRootCommand_Version(t *testing.T) {
	setup(t)
	c := New(io.Discard, LogInfo)

	root := c.RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "pipeline-yaml version ") {
		t.Errorf("version output = %q", buf.String())
	}
}

func TestRootCommand_NotPipeline(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	c := New(io.Discard, LogInfo)

	err := execute(c, writeFile(t, "s.yaml", "class: stage\nname: s\n"), "-f", "dot", "--output-dir", dir)
	if !perrors.Is(err, perrors.ErrCodeValidation) {
		t.Fatalf("got %v, want VALIDATION_ERROR", err)
	}
	if got := perrors.UserMessage(err); got != "Top level is not a pipeline definition" {
		t.Errorf("UserMessage = %q", got)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("nothing should be written, found %d entries", len(entries))
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	setup(t)
	c := New(io.Discard, LogInfo)

	err := execute(c, writeFile(t, "p.yaml", sampleDoc), "-f", "gif")
	if !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("got %v, want INVALID_FORMAT", err)
	}
}

func TestRootCommand_ConfigPrecedence(t *testing.T) {
	setup(t)
	cfg := writeFile(t, "config.toml", `
format = "svg"
mode = "display"
root_cluster = false
viewer = "from-config"
`)
	t.Setenv("PIPELINE_YAML_VIEWER", "from-env")

	scratch := t.TempDir()
	var opened, viewer string
	c := New(io.Discard, LogInfo)
	c.newRunner = func(l *log.Logger) *pipeline.Runner {
		r := pipeline.NewRunner(l)
		r.ScratchDir = func() string { return scratch }
		r.Open = func(_ context.Context, path, v string) error {
			opened, viewer = path, v
			return nil
		}
		return r
	}

	// The flag overrides the config file's svg.
	if err := execute(c, writeFile(t, "p.yaml", sampleDoc), "--config", cfg, "-f", "dot"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if want := filepath.Join(scratch, "P.dot"); opened != want {
		t.Errorf("opened %q, want %q", opened, want)
	}
	if viewer != "from-env" {
		t.Errorf("viewer = %q, want env to override config", viewer)
	}
	data, err := os.ReadFile(opened)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "cluster_P") {
		t.Error("root_cluster = false should draw the root without a cluster")
	}
}

func TestRootCommand_MissingConfig(t *testing.T) {
	setup(t)
	c := New(io.Discard, LogInfo)

	err := execute(c, writeFile(t, "p.yaml", sampleDoc), "--config", filepath.Join(t.TempDir(), "nope.toml"))
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("got %v, want FILE_NOT_FOUND", err)
	}
}

func TestOptionsFromConfig_Defaults(t *testing.T) {
	empty := optionsFromConfig(config.Config{})
	if empty.FlatRoot {
		t.Error("root cluster should be drawn by default")
	}
	if empty.AllowDangling {
		t.Error("dangling endpoints should fail by default")
	}
}
