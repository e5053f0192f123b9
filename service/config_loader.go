package service

import (
	"time"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/config"
	"github.com/ludo-technologies/treesim/internal/tree"
)

// ConfigurationLoaderImpl turns configuration files into requests
type ConfigurationLoaderImpl struct {
	startDir string
}

// NewConfigurationLoader creates a loader that discovers .treesim.toml from
// the working directory
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{startDir: "."}
}

// NewConfigurationLoaderFrom creates a loader that discovers .treesim.toml
// from startDir
func NewConfigurationLoaderFrom(startDir string) *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{startDir: startDir}
}

// Load resolves the configuration: the explicit file when path is set,
// otherwise the nearest .treesim.toml, otherwise the defaults
func (c *ConfigurationLoaderImpl) Load(path string) (*config.Config, error) {
	cfg, _, err := config.ResolveConfig(path, c.startDir)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, nil
}

// LoadCompareConfig loads the configuration as a compare request
func (c *ConfigurationLoaderImpl) LoadCompareConfig(path string) (*domain.CompareRequest, error) {
	cfg, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return CompareRequestFromConfig(cfg)
}

// LoadMatrixConfig loads the configuration as a matrix request
func (c *ConfigurationLoaderImpl) LoadMatrixConfig(path string) (*domain.MatrixRequest, error) {
	cfg, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return MatrixRequestFromConfig(cfg)
}

// CompareRequestFromConfig converts a configuration into a compare request
func CompareRequestFromConfig(cfg *config.Config) (*domain.CompareRequest, error) {
	metricSet, err := domain.ParseMetricSet(cfg.Compare.Metrics)
	if err != nil {
		return nil, domain.NewConfigError("invalid compare.metrics", err)
	}
	format, err := domain.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		return nil, domain.NewConfigError("invalid output.format", err)
	}

	return &domain.CompareRequest{
		FirstRoot:    cfg.Compare.RootFor(domain.FirstTree),
		SecondRoot:   cfg.Compare.RootFor(domain.SecondTree),
		Metrics:      metricSet,
		Traversal:    traversalOrDefault(cfg.Compare.Traversal),
		Timeout:      time.Duration(cfg.Compare.TimeoutSeconds) * time.Second,
		OutputFormat: format,
		ShowDetails:  cfg.Output.ShowDetails,
		Precision:    cfg.Output.Precision,
	}, nil
}

// MatrixRequestFromConfig converts a configuration into a matrix request
func MatrixRequestFromConfig(cfg *config.Config) (*domain.MatrixRequest, error) {
	metricSet, err := domain.ParseMetricSet(cfg.Compare.Metrics)
	if err != nil {
		return nil, domain.NewConfigError("invalid compare.metrics", err)
	}
	format, err := domain.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		return nil, domain.NewConfigError("invalid output.format", err)
	}

	return &domain.MatrixRequest{
		Recursive:       cfg.Matrix.Recursive,
		IncludePatterns: cfg.Matrix.IncludePatterns,
		ExcludePatterns: cfg.Matrix.ExcludePatterns,
		Root:            cfg.Compare.Root,
		Metrics:         metricSet,
		Traversal:       traversalOrDefault(cfg.Compare.Traversal),
		Timeout:         time.Duration(cfg.Compare.TimeoutSeconds) * time.Second,
		OutputFormat:    format,
		Precision:       cfg.Output.Precision,
		ShowProgress:    cfg.Matrix.ShowProgress,
	}, nil
}

func traversalOrDefault(s string) tree.Traversal {
	if s == "" {
		return tree.TraversalRecursive
	}
	return tree.Traversal(s)
}
