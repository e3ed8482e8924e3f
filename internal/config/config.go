// Package config handles configuration loading and validation for otsinspect.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"otsproof/internal/logging"
)

// Version is the current configuration schema version.
const Version = 1

// Input formats.
const (
	InputHex    = "hex"
	InputBinary = "binary"
)

// Config holds the complete tool configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// Inspect configuration for record decoding.
	Inspect InspectConfig `toml:"inspect" json:"inspect" yaml:"inspect"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is text or json.
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is stdout or stderr.
	Output string `toml:"output" json:"output" yaml:"output"`
}

// InspectConfig controls how record streams are read.
type InspectConfig struct {
	// Strict aborts on the first attestation with invalid content instead
	// of reporting and skipping it.
	Strict bool `toml:"strict" json:"strict" yaml:"strict"`

	// InputFormat is hex (whitespace ignored) or binary.
	InputFormat string `toml:"input_format" json:"input_format" yaml:"input_format"`

	// MaxInputSize bounds the input before any decoding starts.
	MaxInputSize int64 `toml:"max_input_size" json:"max_input_size" yaml:"max_input_size"`

	// DefaultChain is the operation chain used by the digest command.
	DefaultChain []string `toml:"default_chain" json:"default_chain" yaml:"default_chain"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Inspect: InspectConfig{
			Strict:       false,
			InputFormat:  InputHex,
			MaxInputSize: 1 << 20,
			DefaultChain: []string{"sha256"},
		},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(PlatformConfigDir(), "config.toml")
}

// Load reads configuration from the specified path.
// If the file doesn't exist, returns default configuration.
// Supports TOML, JSON, and YAML formats based on file extension.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with OTSINSPECT_.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("OTSINSPECT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OTSINSPECT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("OTSINSPECT_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Inspect.Strict = b
		}
	}
	if v := os.Getenv("OTSINSPECT_INPUT_FORMAT"); v != "" {
		c.Inspect.InputFormat = v
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Inspect.DefaultChain = append([]string{}, c.Inspect.DefaultChain...)
	return &clone
}

// LoggerConfig converts the logging section into a logging.Config.
func (c *Config) LoggerConfig(component string) (*logging.Config, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Logging.Format)
	if err != nil {
		return nil, err
	}
	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = format
	lc.Output = c.Logging.Output
	lc.Component = component
	return lc, nil
}
