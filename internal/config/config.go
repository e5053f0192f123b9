package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/tree"
)

// ConfigFileName is the dedicated project configuration file
const ConfigFileName = ".treesim.toml"

// Config represents the main configuration structure
type Config struct {
	// Compare holds the comparison settings shared by every command
	Compare CompareConfig `mapstructure:"compare" toml:"compare" yaml:"compare"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" toml:"output" yaml:"output"`

	// Matrix holds file selection for pairwise runs
	Matrix MatrixConfig `mapstructure:"matrix" toml:"matrix" yaml:"matrix"`

	// Log holds logger configuration
	Log LogConfig `mapstructure:"log" toml:"log" yaml:"log"`
}

// CompareConfig holds the metric and tree-building settings
type CompareConfig struct {
	// Metrics lists the enabled metrics; empty enables all of them
	Metrics []string `mapstructure:"metrics" toml:"metrics" yaml:"metrics"`

	// Root is the root label used when a side has no specific root
	Root string `mapstructure:"root" toml:"root" yaml:"root"`

	FirstRoot  string `mapstructure:"first_root" toml:"first_root,omitempty" yaml:"first_root,omitempty"`
	SecondRoot string `mapstructure:"second_root" toml:"second_root,omitempty" yaml:"second_root,omitempty"`

	// Traversal is "recursive" or "iterative"
	Traversal string `mapstructure:"traversal" toml:"traversal" yaml:"traversal"`

	// TimeoutSeconds bounds one comparison; 0 disables the limit
	TimeoutSeconds int `mapstructure:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `mapstructure:"format" toml:"format" yaml:"format"`

	// Precision is the number of decimals for scores in text and CSV output
	Precision int `mapstructure:"precision" toml:"precision" yaml:"precision"`

	// ShowDetails adds canonical forms, sizes and raw distances to text output
	ShowDetails bool `mapstructure:"show_details" toml:"show_details" yaml:"show_details"`
}

// MatrixConfig holds configuration for the pairwise matrix command
type MatrixConfig struct {
	IncludePatterns []string `mapstructure:"include_patterns" toml:"include_patterns" yaml:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" toml:"exclude_patterns" yaml:"exclude_patterns"`
	Recursive       bool     `mapstructure:"recursive" toml:"recursive" yaml:"recursive"`
	ShowProgress    bool     `mapstructure:"show_progress" toml:"show_progress" yaml:"show_progress"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level" toml:"level" yaml:"level"`

	// Format is "text" or "json"
	Format string `mapstructure:"format" toml:"format" yaml:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Compare: CompareConfig{
			Metrics:   []string{},
			Root:      domain.DefaultRoot,
			Traversal: string(tree.TraversalRecursive),
		},
		Output: OutputConfig{
			Format:    string(domain.OutputFormatText),
			Precision: domain.DefaultPrecision,
		},
		Matrix: MatrixConfig{
			IncludePatterns: append([]string{}, domain.DefaultIncludePatterns...),
			ExcludePatterns: append([]string{}, domain.DefaultExcludePatterns...),
			Recursive:       true,
			ShowProgress:    true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from an explicit file of any format viper
// understands, or returns the default config when path is empty
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if configPath == "" {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Unmarshal into config struct
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// ResolveConfig loads the explicit config file if one is given, otherwise
// the nearest .treesim.toml above startDir, otherwise the defaults. It also
// returns the path that was used, empty for defaults.
func ResolveConfig(configPath, startDir string) (*Config, string, error) {
	if configPath != "" {
		config, err := LoadConfig(configPath)
		return config, configPath, err
	}
	return NewTomlConfigLoader().LoadConfig(startDir)
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if _, err := domain.ParseMetricSet(c.Compare.Metrics); err != nil {
		return fmt.Errorf("compare.metrics: %w", err)
	}

	if c.Compare.Root == "" {
		return fmt.Errorf("compare.root cannot be empty")
	}

	if c.Compare.Traversal != "" && !tree.Traversal(c.Compare.Traversal).IsValid() {
		return fmt.Errorf("compare.traversal must be 'recursive' or 'iterative', got '%s'", c.Compare.Traversal)
	}

	if c.Compare.TimeoutSeconds < 0 {
		return fmt.Errorf("compare.timeout_seconds must be >= 0, got %d", c.Compare.TimeoutSeconds)
	}

	if _, err := domain.ParseOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	if c.Output.Precision < 0 {
		return fmt.Errorf("output.precision must be >= 0, got %d", c.Output.Precision)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got '%s'", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got '%s'", c.Log.Format)
	}

	return nil
}

// RootFor returns the root label for one side of a comparison
func (c *CompareConfig) RootFor(side domain.TreeSide) string {
	switch {
	case side == domain.FirstTree && c.FirstRoot != "":
		return c.FirstRoot
	case side == domain.SecondTree && c.SecondRoot != "":
		return c.SecondRoot
	default:
		return c.Root
	}
}

// SaveConfig writes the configuration to path as TOML
func SaveConfig(config *Config, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
