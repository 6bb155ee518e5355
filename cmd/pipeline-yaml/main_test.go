package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
)

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "coded",
			err:  fmt.Errorf("doc.yaml: %w", perrors.New(perrors.ErrCodeValidation, "Top level is not a pipeline definition")),
			want: "pipeline-yaml ERROR: Top level is not a pipeline definition, exiting\n",
		},
		{
			name: "plain",
			err:  fmt.Errorf("accepts 1 arg(s), received 0"),
			want: "pipeline-yaml ERROR: accepts 1 arg(s), received 0, exiting\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			report(&buf, tt.err)
			if buf.String() != tt.want {
				t.Errorf("report() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"cancelled", context.Canceled, 130},
		{"wrapped cancel", fmt.Errorf("render: %w", context.Canceled), 130},
		{"coded", perrors.New(perrors.ErrCodeParse, "bad yaml"), 1},
		{"plain", errors.New("accepts 1 arg(s), received 0"), 1},
		{"deadline", context.DeadlineExceeded, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestRun_MissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	err := run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.yaml")})
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("got %v, want FILE_NOT_FOUND", err)
	}
}

func TestRun_NoArgs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := run(context.Background(), nil); err == nil {
		t.Error("expected an error without FILE")
	}
}
