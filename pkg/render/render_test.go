package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/pipeline-yaml/pkg/dot"
	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
)

func sampleGraph() *dot.Graph {
	g := dot.NewDigraph("P", dot.A("compound", "true"))
	c := dot.NewCluster("P", dot.A("label", "P"), dot.A("color", "blue"))
	c.AddNode("A", dot.A("shape", "rectangle"), dot.A("style", "filled"), dot.A("fillcolor", "gold"))
	c.AddNode("B", dot.A("shape", "rectangle"), dot.A("style", "filled"), dot.A("fillcolor", "red"))
	c.AddEdge("A", "B", dot.A("label", "transform"), dot.A("fontsize", "7"))
	g.AddSubgraph(c)
	return g
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"jpg", false},
		{"dot", false},
		{"pdf", false},
		{"json", true},
		{"PNG", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err != nil && !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
				t.Errorf("ValidateFormat(%q) code = %s", tt.format, perrors.GetCode(err))
			}
		})
	}
}

func TestRender_DOT(t *testing.T) {
	g := sampleGraph()
	data, err := Render(context.Background(), g, FormatDOT)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if string(data) != g.String() {
		t.Error("dot format should return the DOT source unchanged")
	}
}

func TestRender_SVG(t *testing.T) {
	data, err := Render(context.Background(), sampleGraph(), FormatSVG)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	svg := string(data)
	if !strings.Contains(svg, "<svg") {
		t.Error("Render() output missing <svg> tag")
	}
	for _, want := range []string{"cluster_P", "transform"} {
		if !strings.Contains(svg, want) {
			t.Errorf("Render() output missing %q", want)
		}
	}
}

func TestRender_SVGNonASCIILabels(t *testing.T) {
	g := dot.NewDigraph("P")
	g.AddNode("a\u00a0b", dot.A("shape", "rectangle"))
	g.AddNode("c", dot.A("label", "align\n(bwa)"))
	g.AddEdge("a\u00a0b", "c", dot.A("label", "x\ty"))

	data, err := Render(context.Background(), g, FormatSVG)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	svg := string(data)
	for _, bad := range []string{"u00a0", ">xty<", `\t`} {
		if strings.Contains(svg, bad) {
			t.Errorf("SVG contains mangled label text %q", bad)
		}
	}
	if !strings.Contains(svg, ">align<") || !strings.Contains(svg, ">(bwa)<") {
		t.Error("newline in a label should split it into two text lines")
	}
}

func TestRender_PNG(t *testing.T) {
	data, err := Render(context.Background(), sampleGraph(), FormatPNG)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("Render() output is not a PNG")
	}
}

func TestRender_InvalidFormat(t *testing.T) {
	if _, err := Render(context.Background(), sampleGraph(), "gif"); err == nil {
		t.Error("Render() should reject unknown formats")
	}
}

func TestRenderDOT_Invalid(t *testing.T) {
	_, err := RenderDOT(context.Background(), "this is not dot {{{", "svg")
	if err == nil {
		t.Error("RenderDOT() should return error for invalid DOT")
	}
}

func TestToPDF_MissingConverter(t *testing.T) {
	old := rsvgBinary
	rsvgBinary = "rsvg-convert-does-not-exist"
	defer func() { rsvgBinary = old }()

	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if !perrors.Is(err, perrors.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want UNSUPPORTED", err)
	}
}
