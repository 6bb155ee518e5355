// Package config loads rendering defaults from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, PIPELINE_YAML_*
// environment variables. Command-line flags are applied on top by the CLI.
//
// Example config.toml:
//
//	format = "svg"
//	mode = "display"
//	labels = "name"
//	root_cluster = false
//	cluster_color = "darkgreen"
//	edge_font_size = 8
//	allow_dangling = true
//	viewer = "eog"
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"

	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
)

const (
	// AppName names the config directory.
	AppName = "pipeline-yaml"

	// FileName is the config file name inside the config directory.
	FileName = "config.toml"

	// EnvPrefix prefixes every environment variable read by [FromEnv].
	EnvPrefix = "PIPELINE_YAML_"
)

// Config holds rendering defaults. Zero values mean "not set" so that
// layers can be merged; pointer fields distinguish false from unset.
type Config struct {
	Format        string `toml:"format" env:"FORMAT"`
	Mode          string `toml:"mode" env:"MODE"`
	OutputDir     string `toml:"output_dir" env:"OUTPUT_DIR"`
	Labels        string `toml:"labels" env:"LABELS"`
	RootCluster   *bool  `toml:"root_cluster" env:"ROOT_CLUSTER, noinit"`
	ClusterColor  string `toml:"cluster_color" env:"CLUSTER_COLOR"`
	EdgeFontSize  int    `toml:"edge_font_size" env:"EDGE_FONT_SIZE"`
	AllowDangling *bool  `toml:"allow_dangling" env:"ALLOW_DANGLING, noinit"`
	Viewer        string `toml:"viewer" env:"VIEWER"`
}

// Merge overwrites fields of c with the set fields of over.
func (c *Config) Merge(over Config) {
	if over.Format != "" {
		c.Format = over.Format
	}
	if over.Mode != "" {
		c.Mode = over.Mode
	}
	if over.OutputDir != "" {
		c.OutputDir = over.OutputDir
	}
	if over.Labels != "" {
		c.Labels = over.Labels
	}
	if over.RootCluster != nil {
		c.RootCluster = over.RootCluster
	}
	if over.ClusterColor != "" {
		c.ClusterColor = over.ClusterColor
	}
	if over.EdgeFontSize != 0 {
		c.EdgeFontSize = over.EdgeFontSize
	}
	if over.AllowDangling != nil {
		c.AllowDangling = over.AllowDangling
	}
	if over.Viewer != "" {
		c.Viewer = over.Viewer
	}
}

// Bool returns *b, or def if b is unset.
func Bool(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// DefaultPath returns the config file path using the XDG standard
// (~/.config/pipeline-yaml/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// FromFile decodes a TOML config file. Unknown keys are an error.
func FromFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open config %s", path)
		}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return Config{}, perrors.New(perrors.ErrCodeInvalidConfig, "config %s: %s", path, perr.Error())
		}
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, perrors.New(perrors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// FromEnv reads PIPELINE_YAML_* variables through l. Pass nil to read the
// process environment.
func FromEnv(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	if l == nil {
		l = envconfig.OsLookuper()
	}
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, l),
	})
	if err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "environment")
	}
	return cfg, nil
}

// Load reads the config file at path and overlays the environment.
//
// If path is empty the default path is used and a missing file is not an
// error. An explicit path must exist.
func Load(ctx context.Context, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	var cfg Config
	if path != "" {
		fileCfg, err := FromFile(path)
		switch {
		case err == nil:
			cfg = fileCfg
		case !explicit && perrors.Is(err, perrors.ErrCodeFileNotFound):
		default:
			return Config{}, err
		}
	}

	envCfg, err := FromEnv(ctx, nil)
	if err != nil {
		return Config{}, err
	}
	cfg.Merge(envCfg)
	return cfg, nil
}
