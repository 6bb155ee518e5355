package render

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pipeline-yaml/pkg/dot"
	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatJPG = "jpg"
	FormatDOT = "dot"
	FormatPDF = "pdf"
)

// DefaultFormat is the raster format used when none is requested.
const DefaultFormat = FormatPNG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatSVG: true,
	FormatJPG: true,
	FormatDOT: true,
	FormatPDF: true,
}

var graphvizFormats = map[string]graphviz.Format{
	FormatPNG: graphviz.PNG,
	FormatSVG: graphviz.SVG,
	FormatJPG: graphviz.JPG,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return perrors.New(perrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, formatList())
	}
	return nil
}

func formatList() string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Render produces g in the given format.
func Render(ctx context.Context, g *dot.Graph, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	src := g.String()

	switch format {
	case FormatDOT:
		return []byte(src), nil
	case FormatPDF:
		svg, err := RenderDOT(ctx, src, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return ToPDF(ctx, svg)
	default:
		return RenderDOT(ctx, src, graphvizFormats[format])
	}
}

// RenderDOT lays out DOT source with Graphviz and renders it in format.
func RenderDOT(ctx context.Context, src string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeRender, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
