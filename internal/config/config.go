// Package config loads the optional jackc.yaml project configuration.
// A missing file is not an error — CLI flags always take precedence
// over whatever a config file sets.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config mirrors the CLI's tunables so a project can pin defaults
// instead of repeating flags on every invocation.
type Config struct {
	Debug       bool   `yaml:"debug"`
	DebugFormat string `yaml:"debugFormat"`
	Color       string `yaml:"color"`
}

// Default returns the config used when no file is present.
func Default() Config {
	return Config{DebugFormat: "text", Color: "auto"}
}

// Load reads and parses path. A missing file returns Default() with
// no error; any other read or parse failure is returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
