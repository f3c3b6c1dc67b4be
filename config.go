package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "gitz.yaml"

// Config is the optional per-project configuration, read from gitz.yaml in
// the source file's directory. Command-line flags win over it.
type Config struct {
	OutDir   string `yaml:"out_dir"`
	Optimize *bool  `yaml:"optimize"`
}

// loadConfig reads gitz.yaml from dir. A missing file yields the zero
// config; a malformed one is an error.
func loadConfig(dir string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", configFile, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	return cfg, nil
}

// wantOptimize resolves the optimization setting: the --no-optimize flag
// beats the config; the default is on.
func (c *Config) wantOptimize(noOptimizeFlag bool) bool {
	if noOptimizeFlag {
		return false
	}
	if c.Optimize != nil {
		return *c.Optimize
	}
	return true
}
