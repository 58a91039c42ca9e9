package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root   string `yaml:"root"`   // project root scanned by default
		Source string `yaml:"source"` // subdirectory holding barrel sources, relative to root
	} `yaml:"project"`
	Rewrite struct {
		Quote string `yaml:"quote"` // "single" (default) or "double"
	} `yaml:"rewrite"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Project.Root = "."
	cfg.Rewrite.Quote = "single"
	return cfg
}

// LoadConfig reads the YAML file at path, after loading a .env if one
// exists. Environment variables override the file.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if root := os.Getenv("UNBARREL_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if source := os.Getenv("UNBARREL_SOURCE"); source != "" {
		cfg.Project.Source = source
	}

	return cfg, nil
}

// QuoteString maps the configured quote style to the character used in
// emitted imports.
func (c *Config) QuoteString() string {
	if c.Rewrite.Quote == "double" {
		return `"`
	}
	return "'"
}
