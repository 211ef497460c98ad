package siteconfig

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/docsite/pkg/errors"
	"github.com/agentstation/docsite/pkg/theme"
)

// Load reads, parses and validates the configuration at path, validating
// theme components against the built-in registry.
func Load(path string) (*Config, error) {
	return LoadWithRegistry(path, theme.DefaultRegistry())
}

// LoadWithRegistry is Load with an explicit component registry.
func LoadWithRegistry(path string, reg *theme.Registry) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	cfg, err := parse(data, path)
	if err != nil {
		return nil, err
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.path = path

	if err := cfg.Validate(reg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse parses configuration YAML and applies defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	return parse(data, "")
}

func parse(data []byte, file string) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, errors.WrapParse("yaml", file, err)
		}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Marshal renders the configuration back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
