package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestFromFile(t *testing.T) {
	path := writeConfig(t, `
format = "svg"
mode = "display"
labels = "name"
root_cluster = false
cluster_color = "darkgreen"
edge_font_size = 8
viewer = "eog"
`)

	cfg, err := FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "svg", cfg.Format)
	assert.Equal(t, "display", cfg.Mode)
	assert.Equal(t, "name", cfg.Labels)
	require.NotNil(t, cfg.RootCluster)
	assert.False(t, *cfg.RootCluster)
	assert.Equal(t, "darkgreen", cfg.ClusterColor)
	assert.Equal(t, 8, cfg.EdgeFontSize)
	assert.Nil(t, cfg.AllowDangling)
	assert.Equal(t, "eog", cfg.Viewer)
}

func TestFromFile_UnknownKey(t *testing.T) {
	_, err := FromFile(writeConfig(t, "format = \"png\"\ncolour = \"red\"\n"))
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidConfig))
	assert.Contains(t, err.Error(), "colour")
}

func TestFromFile_Malformed(t *testing.T) {
	_, err := FromFile(writeConfig(t, "format = \n"))
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidConfig))
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeFileNotFound))
}

func TestFromEnv(t *testing.T) {
	l := envconfig.MapLookuper(map[string]string{
		"PIPELINE_YAML_FORMAT":         "jpg",
		"PIPELINE_YAML_ALLOW_DANGLING": "true",
		"PIPELINE_YAML_EDGE_FONT_SIZE": "11",
		"FORMAT":                       "ignored-without-prefix",
	})

	cfg, err := FromEnv(context.Background(), l)
	require.NoError(t, err)

	assert.Equal(t, "jpg", cfg.Format)
	require.NotNil(t, cfg.AllowDangling)
	assert.True(t, *cfg.AllowDangling)
	assert.Equal(t, 11, cfg.EdgeFontSize)
	assert.Nil(t, cfg.RootCluster)
	assert.Empty(t, cfg.Mode)
}

func TestFromEnv_Invalid(t *testing.T) {
	l := envconfig.MapLookuper(map[string]string{"PIPELINE_YAML_EDGE_FONT_SIZE": "big"})
	_, err := FromEnv(context.Background(), l)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidConfig))
}

func TestMerge(t *testing.T) {
	no, yes := false, true
	base := Config{Format: "png", Mode: "write", RootCluster: &yes, EdgeFontSize: 7}
	base.Merge(Config{Format: "svg", RootCluster: &no})

	assert.Equal(t, "svg", base.Format)
	assert.Equal(t, "write", base.Mode, "unset fields must not overwrite")
	assert.False(t, Bool(base.RootCluster, true))
	assert.Equal(t, 7, base.EdgeFontSize)
}

func TestBool(t *testing.T) {
	v := false
	assert.True(t, Bool(nil, true))
	assert.False(t, Bool(&v, true))
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName, FileName), path)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, AppName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, AppName, FileName), []byte("format = \"svg\"\nmode = \"display\"\n"), 0o644))
	t.Setenv("PIPELINE_YAML_MODE", "write")

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "svg", cfg.Format)
	assert.Equal(t, "write", cfg.Mode, "environment overrides the file")
}

func TestLoad_MissingDefaultIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, cfg.Format)
}

func TestLoad_MissingExplicitFails(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeFileNotFound))
}
