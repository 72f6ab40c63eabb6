// Package config loads the engine's top-level YAML configuration: listen
// addresses, the multicast interface, and front-end timing, the same
// single-struct/yaml.v3 shape the teacher's own Config uses, generalized
// to this engine's settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the engine's process-wide configuration, loaded once at
// startup from a YAML file.
type Config struct {
	Group         string  `yaml:"group"`
	Interface     string  `yaml:"interface"`
	MetricsListen string  `yaml:"metrics_listen"`
	Blocktime     float64 `yaml:"blocktime"`
	Overlap       float64 `yaml:"overlap"`
	Verbose       int     `yaml:"verbose"`
}

// Default returns the engine's built-in defaults, used when no config
// file is given or a key is omitted.
func Default() Config {
	return Config{
		Group:         "radiod-engine.local:5006",
		MetricsListen: ":9106",
		Blocktime:     0.02,
		Overlap:       5,
		Verbose:       1,
	}
}

// Load reads and parses a YAML config file, overlaying it onto Default().
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}
