// Package config loads the optional sffkit.yaml settings file: atlas
// padding, a default-palette override, the log file path, and the output
// directory, matching the shape of the teacher corpus's own YAML settings
// files.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk settings shape. Every field is optional; the zero
// value is a valid, maximally-default configuration.
type Config struct {
	AtlasPadding         int    `yaml:"atlas_padding"`
	DefaultPaletteGroup  *int16 `yaml:"default_palette_group"`
	DefaultPaletteItem   *int16 `yaml:"default_palette_item"`
	LogFile              string `yaml:"log_file"`
	LogVerbose           bool   `yaml:"log_verbose"`
	OutputDir            string `yaml:"output_dir"`
}

// Load reads and parses path. A missing file is not an error: it returns
// the zero-value Config, matching a tool that runs fine with no settings
// file present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Wrap(err, "config: reading file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "config: parsing yaml")
	}
	return &cfg, nil
}
