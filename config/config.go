package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const defaultCount = 1

// Config holds the settings of the fixture command.
type Config struct {
	Builder BuilderConfig `json:"builder"`
	Server  ServerConfig  `json:"server"`

	// Catalog is the path of an HCL or JSON state catalog
	Catalog string `json:"catalog,omitempty"`

	// States are applied after the catalog defaults, in order
	States []string `json:"states,omitempty"`

	// Count is the number of fixtures built per run
	Count int `json:"count,omitempty"`
}

// DefaultConfig returns a Config with defaults for every section.
func DefaultConfig() Config {
	return Config{
		Builder: DefaultBuilderConfig(),
		Server:  DefaultServerConfig(),
		Count:   defaultCount,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Builder.Merge(&source.Builder)
	c.Server.Merge(&source.Server)

	if source.Catalog != "" {
		c.Catalog = source.Catalog
	}
	if len(source.States) > 0 {
		c.States = append([]string(nil), source.States...)
	}
	if source.Count > 0 {
		c.Count = source.Count
	}
}

// Load reads a JSON config file and merges it over DefaultConfig.
func Load(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
