// Package config holds language constants and the optional ash.yaml
// project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the ash.yaml project configuration.
type Config struct {
	// Libs lists extra directories searched for imported modules, after the
	// bundled libraries, the importing file's directory and the install dir.
	// Relative entries are resolved against the config file's directory.
	Libs []string `yaml:"libs"`

	// Echo prints the program result after a successful run.
	Echo bool `yaml:"echo"`

	// Color is one of auto, always, never.
	Color string `yaml:"color"`

	// Debug dumps the AST and the sealed program to stderr.
	Debug bool `yaml:"debug"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no ash.yaml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// ParseConfig parses ash.yaml content.
// The path argument is used for error messages and relative lib dirs.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	cfg.Path = path

	dir := filepath.Dir(path)
	for i, lib := range cfg.Libs {
		if !filepath.IsAbs(lib) {
			cfg.Libs[i] = filepath.Join(dir, lib)
		}
	}
	return &cfg, nil
}

// FindConfig searches for ash.yaml starting from dir and walking up
// to parent directories. It returns "" and a nil error when none exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{"ash.yaml", "ash.yml"} {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load finds and parses the configuration governing sourceDir.
func Load(sourceDir string) (*Config, error) {
	path, err := FindConfig(sourceDir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

func (c *Config) validate(path string) error {
	switch strings.ToLower(c.Color) {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%s: color must be one of auto, always, never (got %q)", path, c.Color)
	}
	for i, lib := range c.Libs {
		if strings.TrimSpace(lib) == "" {
			return fmt.Errorf("%s: libs[%d]: empty directory", path, i)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	c.Color = strings.ToLower(c.Color)
	if c.Color == "" {
		c.Color = "auto"
	}
}
