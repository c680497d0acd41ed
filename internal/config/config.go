// Package config loads the shell's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the shell configuration. Every field has a working default so a
// missing file is not an error.
type Config struct {
	Prompt      string  `yaml:"prompt"`
	ProgramsDir string  `yaml:"programs_dir"`
	BridgeAddr  string  `yaml:"bridge_addr"`
	ViewerAddr  string  `yaml:"viewer_addr"`
	TraceLevel  int     `yaml:"trace_level"`
	History     History `yaml:"history"`
}

// History selects the history backend. Options is backend-specific and
// decoded with mapstructure into FileOptions or RedisOptions.
type History struct {
	Backend string         `yaml:"backend"`
	Options map[string]any `yaml:"options"`
}

// FileOptions configures the file backend.
type FileOptions struct {
	Path string `mapstructure:"path"`
}

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Prompt:      "C> ",
		ProgramsDir: "programs",
		BridgeAddr:  "127.0.0.1:5544",
		ViewerAddr:  "127.0.0.1:8501",
		History:     History{Backend: "file"},
	}
}

// DefaultPath is ~/.cozmo_cli.yaml, or ./.cozmo_cli.yaml if the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cozmo_cli.yaml")
}

// Load reads path, filling in defaults for missing fields. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "C> "
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = "file"
	}
	return cfg, nil
}

// FileOptions decodes the history options for the file backend.
func (h History) FileOptions() (FileOptions, error) {
	var opts FileOptions
	if err := mapstructure.Decode(h.Options, &opts); err != nil {
		return opts, fmt.Errorf("decoding file history options: %w", err)
	}
	return opts, nil
}

// RedisOptions decodes the history options for the redis backend.
func (h History) RedisOptions() (RedisOptions, error) {
	opts := RedisOptions{Addr: "127.0.0.1:6379", Prefix: "cozmo:"}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &opts,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return opts, err
	}
	if err := decoder.Decode(h.Options); err != nil {
		return opts, fmt.Errorf("decoding redis history options: %w", err)
	}
	return opts, nil
}
