// Package cli implements the pipeline-yaml command-line interface.
//
// The command takes one pipeline document, renders it through
// pipeline.Runner and reports the artifact path on stdout. Diagnostics go
// to stderr through a charmbracelet/log logger.
//
// # Logging
//
// The logger runs at info level by default and at debug level with
// --verbose (-v). runRender attaches it to the context handed to the
// runner, and the pipeline hooks log through whichever logger the context
// carries.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LevelFor(verbose))
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the command's diagnostic logger writing to w.
// Lines carry a "15:04:05.00" timestamp.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// LevelFor maps the --verbose flag to a log level.
func LevelFor(verbose bool) log.Level {
	if verbose {
		return LogDebug
	}
	return LogInfo
}

// stopwatch times one render for the completion log line.
type stopwatch struct {
	start time.Time
}

func startStopwatch() stopwatch {
	return stopwatch{start: time.Now()}
}

// report logs msg at info level with the elapsed time, rounded to the
// millisecond, appended as the "elapsed" field.
func (s stopwatch) report(l *log.Logger, msg string, keyvals ...any) {
	kv := append(keyvals, "elapsed", time.Since(s.start).Round(time.Millisecond))
	l.Info(msg, kv...)
}

type loggerKey struct{}

// contextWithLogger attaches l to ctx for the pipeline hooks.
func contextWithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFrom returns the logger attached to ctx, or fallback when there is
// none.
func loggerFrom(ctx context.Context, fallback *log.Logger) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && l != nil {
		return l
	}
	return fallback
}
