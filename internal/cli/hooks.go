package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// logHooks reports pipeline events at debug level. Events are logged to
// the logger carried by the event's context, falling back to the logger
// the hooks were built with.
type logHooks struct {
	fallback *log.Logger
}

func (h *logHooks) log(ctx context.Context) *log.Logger {
	return loggerFrom(ctx, h.fallback)
}

func (h *logHooks) OnLoadStart(ctx context.Context, path string) {
	h.log(ctx).Debug("loading document", "path", path)
}

func (h *logHooks) OnLoadComplete(ctx context.Context, path string, components int, d time.Duration, err error) {
	if err != nil {
		h.log(ctx).Debug("load failed", "path", path, "duration", d, "err", err)
		return
	}
	h.log(ctx).Debug("loaded document", "path", path, "components", components, "duration", d)
}

func (h *logHooks) OnRenderStart(ctx context.Context, format string) {
	h.log(ctx).Debug("rendering", "format", format)
}

func (h *logHooks) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.log(ctx).Debug("render failed", "format", format, "duration", d, "err", err)
		return
	}
	h.log(ctx).Debug("rendered", "format", format, "size", humanize.Bytes(uint64(size)), "duration", d)
}

func (h *logHooks) OnOutput(ctx context.Context, mode, path string) {
	h.log(ctx).Debug("output", "mode", mode, "path", path)
}
