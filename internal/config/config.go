package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/roach88/emit/internal/sink"
)

// Sink kinds.
const (
	KindSlog   = "slog"
	KindSQLite = "sqlite"
	KindWire   = "wire"
)

// Config describes the sinks records are dispatched to.
type Config struct {
	// Default names the sink for records without a routed target.
	// Empty selects the first sink.
	Default string `yaml:"default" json:"default"`

	Sinks []SinkConfig `yaml:"sinks" json:"sinks"`

	// Strict rejects bare holes that no field defines. Defaults to true;
	// false lets a bare hole bind the scope entry of the same name.
	Strict *bool `yaml:"strict" json:"strict"`
}

// SinkConfig describes one named sink.
type SinkConfig struct {
	Name string `yaml:"name" json:"name"`
	Kind string `yaml:"kind" json:"kind"`

	// Path is the output file (slog, wire) or database (sqlite).
	// Empty or "-" means stderr for slog and stdout for wire.
	Path string `yaml:"path" json:"path"`

	// Format is text or json (slog only).
	Format string `yaml:"format" json:"format"`

	// Level is the default record level (slog only).
	Level string `yaml:"level" json:"level"`

	// Codec is cbor or msgpack and Compress is none or zstd (wire only).
	Codec    string `yaml:"codec" json:"codec"`
	Compress string `yaml:"compress" json:"compress"`

	// Async, when positive, delivers through a queue holding at most
	// this many pending records.
	Async int `yaml:"async" json:"async"`
}

// Ambient reports whether bare holes bind the scope directly.
func (c *Config) Ambient() bool {
	return c.Strict != nil && !*c.Strict
}

// DefaultName returns the name of the fallback sink, or "" when there
// are no sinks.
func (c *Config) DefaultName() string {
	if c.Default != "" {
		return c.Default
	}
	if len(c.Sinks) > 0 {
		return c.Sinks[0].Name
	}
	return ""
}

// Default returns the configuration used without a file: text logs to stderr.
func Default() *Config {
	return &Config{
		Default: "console",
		Sinks:   []SinkConfig{{Name: "console", Kind: KindSlog, Format: "text"}},
	}
}

// Load reads a configuration file. Files ending in .json or .jsonc are
// parsed as JSONC; anything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		cfg, err = ParseJSONC(data)
	default:
		cfg, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseYAML decodes and validates a YAML configuration.
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// ParseJSONC strips comments and trailing commas, then decodes and
// validates the JSON configuration.
func ParseJSONC(data []byte) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks sink names, kinds, and per-kind options.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Sinks))

	for i, s := range c.Sinks {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("sinks[%d]: name is required", i))
		} else if seen[s.Name] {
			errs = append(errs, fmt.Errorf("sinks[%d]: duplicate sink name %q", i, s.Name))
		}
		seen[s.Name] = true

		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("sinks[%d] (%s): %w", i, s.Name, err))
		}
	}

	if c.Default != "" && !seen[c.Default] {
		errs = append(errs, fmt.Errorf("default sink %q is not defined", c.Default))
	}
	return errors.Join(errs...)
}

func (s SinkConfig) validate() error {
	if s.Async < 0 {
		return fmt.Errorf("async must not be negative, got %d", s.Async)
	}

	switch s.Kind {
	case KindSlog:
		if s.Format != "" && s.Format != "text" && s.Format != "json" {
			return fmt.Errorf("format must be text or json, got %q", s.Format)
		}
		if _, ok := sink.ParseLevel(s.Level); !ok {
			return fmt.Errorf("unknown level %q", s.Level)
		}
	case KindSQLite:
		if s.Path == "" || s.Path == "-" {
			return errors.New("sqlite sink requires a path")
		}
	case KindWire:
		if _, err := sink.ParseCodec(s.Codec); err != nil {
			return err
		}
		if _, err := sink.ParseCompression(s.Compress); err != nil {
			return err
		}
	case "":
		return errors.New("kind is required")
	default:
		return fmt.Errorf("unknown kind %q (want slog, sqlite, or wire)", s.Kind)
	}
	return nil
}
