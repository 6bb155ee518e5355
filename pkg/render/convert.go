package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
)

// rsvgBinary is the converter used for PDF output. Tests override it.
var rsvgBinary = "rsvg-convert"

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath(rsvgBinary); err != nil {
		return nil, perrors.New(perrors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, rsvgBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeRender, err, "rsvg-convert: %s", strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
