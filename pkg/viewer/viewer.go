// Package viewer opens rendered diagrams in the platform's default viewer.
//
// The platform default (open, xdg-open or the Windows URL handler) is
// launched through github.com/pkg/browser. A configured viewer command is
// started directly and left running.
package viewer

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/browser"

	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
)

// openFile launches the platform default handler for a file.
var openFile = browser.OpenFile

func init() {
	// Keep viewer chatter off stdout, which carries the command's status.
	browser.Stdout = os.Stderr
}

// Command splits a viewer override into a program and its arguments, with
// path appended last. ok is false when override is blank.
func Command(override, path string) (name string, args []string, ok bool) {
	fields := strings.Fields(override)
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], append(fields[1:], path), true
}

// Open shows path. With a non-empty override the viewer is started and
// released without waiting for it; otherwise the platform default handler
// opens the file.
func Open(ctx context.Context, path, override string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, args, ok := Command(override, path)
	if !ok {
		if err := openFile(path); err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return perrors.Wrap(perrors.ErrCodeUnsupported, err, "no viewer available (set viewer in the config or use write mode)")
			}
			return perrors.Wrap(perrors.ErrCodeIO, err, "open %s", path)
		}
		return nil
	}

	if _, err := exec.LookPath(name); err != nil {
		return perrors.Wrap(perrors.ErrCodeUnsupported, err, "viewer %q not found", name)
	}
	// Not tied to ctx: the viewer outlives the command.
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "start %s", name)
	}
	return cmd.Process.Release()
}
