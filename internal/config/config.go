// Package config loads the .gridcast.yml mirror configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gridcast/gridcast/internal/identity"
	"github.com/gridcast/gridcast/internal/logging"
	"github.com/gridcast/gridcast/internal/runenv"
)

// Config is the on-disk mirror configuration. Absent fields keep their
// defaults, so every field is a pointer.
type Config struct {
	// RowArray toggles the per-row indirection table in the segment.
	RowArray *bool `yaml:"row_array,omitempty"`

	// ExternalControl toggles the paired message queue.
	ExternalControl *bool `yaml:"external_control,omitempty"`

	// PipeName names the input pipe in the rendezvous directory. Empty
	// disables the pipe.
	PipeName *string `yaml:"pipe_name,omitempty"`

	Logging logging.Config `yaml:"logging,omitempty"`
}

// Default returns the stock configuration: row indirection and external
// control on, no input pipe.
func Default() Config {
	rowArray := true
	external := true
	return Config{
		RowArray:        &rowArray,
		ExternalControl: &external,
	}
}

// Merge overlays override onto c, field by field.
func Merge(c, override Config) Config {
	out := c
	if override.RowArray != nil {
		out.RowArray = override.RowArray
	}
	if override.ExternalControl != nil {
		out.ExternalControl = override.ExternalControl
	}
	if override.PipeName != nil {
		out.PipeName = override.PipeName
	}
	out.Logging = mergeLogging(out.Logging, override.Logging)
	return out
}

func mergeLogging(base, override logging.Config) logging.Config {
	out := base
	if override.Level != nil {
		out.Level = override.Level
	}
	if override.Format != nil {
		out.Format = override.Format
	}
	if override.Sink != nil {
		out.Sink = override.Sink
	}
	if override.File != nil {
		out.File = override.File
	}
	if override.AddSource != nil {
		out.AddSource = override.AddSource
	}
	if override.MaxSizeMB != nil {
		out.MaxSizeMB = override.MaxSizeMB
	}
	if override.MaxBackups != nil {
		out.MaxBackups = override.MaxBackups
	}
	if override.MaxAgeDays != nil {
		out.MaxAgeDays = override.MaxAgeDays
	}
	if override.Compress != nil {
		out.Compress = override.Compress
	}
	return out
}

// Overridable for tests.
var userConfigDir = os.UserConfigDir

// Load reads configuration in precedence order: defaults, then the global
// config.yml under the user config dir, then the project file in dir. A
// malformed file is an error; a missing one is not.
func Load(dir string) (Config, error) {
	cfg := Default()

	globalPath, err := findGlobalConfigFile()
	if err != nil {
		return cfg, err
	}
	if globalPath != "" {
		cfg, err = mergeFile(cfg, globalPath)
		if err != nil {
			return Default(), err
		}
	}

	projectPath, err := findProjectConfigFile(dir)
	if err != nil {
		return cfg, err
	}
	if projectPath != "" {
		cfg, err = mergeFile(cfg, projectPath)
		if err != nil {
			return Default(), err
		}
	}

	if cfg.PipeName != nil {
		trimmed := strings.TrimSpace(*cfg.PipeName)
		if strings.ContainsAny(trimmed, `/\`) {
			return Default(), fmt.Errorf("config: pipe_name %q must be a bare name", trimmed)
		}
		cfg.PipeName = &trimmed
	}
	return cfg, nil
}

func mergeFile(base Config, path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %q: %w", path, err)
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return base, fmt.Errorf("parse config %q: %w", path, err)
	}
	return Merge(base, file), nil
}

func findProjectConfigFile(dir string) (string, error) {
	if override := runenv.ConfigDir(); override != "" {
		dir = override
	}
	if dir == "" {
		dir = "."
	}
	return firstExisting(dir, identity.ProjectConfigFileYML, identity.ProjectConfigFileYAML)
}

func findGlobalConfigFile() (string, error) {
	base, err := userConfigDir()
	if err != nil {
		return "", nil
	}
	return firstExisting(filepath.Join(base, identity.AppSlug), identity.GlobalConfigFile)
}

func firstExisting(dir string, names ...string) (string, error) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat config %q: %w", path, err)
		}
	}
	return "", nil
}
