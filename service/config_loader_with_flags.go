package service

import (
	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/config"
	"github.com/ludo-technologies/treesim/internal/tree"
)

// Command-line flag names consulted when merging
const (
	FlagMetrics    = "metrics"
	FlagRoot       = "root"
	FlagFirstRoot  = "first-root"
	FlagSecondRoot = "second-root"
	FlagIterative  = "iterative"
	FlagTimeout    = "timeout"
	FlagFormat     = "format"
	FlagDetails    = "details"
	FlagPrecision  = "precision"
	FlagInclude    = "include"
	FlagExclude    = "exclude"
	FlagRecursive  = "recursive"
	FlagNoProgress = "no-progress"
)

// ConfigurationLoaderWithFlags wraps configuration loading with explicit flag tracking
type ConfigurationLoaderWithFlags struct {
	loader        *ConfigurationLoaderImpl
	explicitFlags map[string]bool
}

// NewConfigurationLoaderWithFlags creates a new configuration loader that
// lets a command-line value win only when its flag was set
func NewConfigurationLoaderWithFlags(explicitFlags map[string]bool) *ConfigurationLoaderWithFlags {
	return NewConfigurationLoaderWithFlagsFrom(NewConfigurationLoader(), explicitFlags)
}

// NewConfigurationLoaderWithFlagsFrom is NewConfigurationLoaderWithFlags
// over a specific loader
func NewConfigurationLoaderWithFlagsFrom(loader *ConfigurationLoaderImpl, explicitFlags map[string]bool) *ConfigurationLoaderWithFlags {
	copied := make(map[string]bool, len(explicitFlags))
	for name, set := range explicitFlags {
		copied[name] = set
	}
	return &ConfigurationLoaderWithFlags{loader: loader, explicitFlags: copied}
}

func (c *ConfigurationLoaderWithFlags) wasSet(flagName string) bool {
	return config.WasExplicitlySet(c.explicitFlags, flagName)
}

// LoadCompareConfig loads the configuration as a compare request
func (c *ConfigurationLoaderWithFlags) LoadCompareConfig(path string) (*domain.CompareRequest, error) {
	return c.loader.LoadCompareConfig(path)
}

// LoadMatrixConfig loads the configuration as a matrix request
func (c *ConfigurationLoaderWithFlags) LoadMatrixConfig(path string) (*domain.MatrixRequest, error) {
	return c.loader.LoadMatrixConfig(path)
}

// MergeCompareConfig merges CLI flags with the configuration file,
// respecting explicit flags
func (c *ConfigurationLoaderWithFlags) MergeCompareConfig(base, override *domain.CompareRequest) *domain.CompareRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	// Paths and writers always come from the command line
	merged.FirstPath = override.FirstPath
	merged.SecondPath = override.SecondPath
	merged.OutputWriter = override.OutputWriter
	merged.OutputPath = override.OutputPath
	merged.ConfigPath = override.ConfigPath

	if c.wasSet(FlagRoot) || c.wasSet(FlagFirstRoot) {
		merged.FirstRoot = override.FirstRoot
	}
	if c.wasSet(FlagRoot) || c.wasSet(FlagSecondRoot) {
		merged.SecondRoot = override.SecondRoot
	}

	merged.Metrics = config.Merge(merged.Metrics, override.Metrics, FlagMetrics, c.explicitFlags)
	merged.Traversal = config.Merge(merged.Traversal, override.Traversal, FlagIterative, c.explicitFlags)
	merged.Timeout = config.Merge(merged.Timeout, override.Timeout, FlagTimeout, c.explicitFlags)
	merged.OutputFormat = config.Merge(merged.OutputFormat, override.OutputFormat, FlagFormat, c.explicitFlags)
	merged.ShowDetails = config.Merge(merged.ShowDetails, override.ShowDetails, FlagDetails, c.explicitFlags)
	merged.Precision = config.Merge(merged.Precision, override.Precision, FlagPrecision, c.explicitFlags)

	if merged.Traversal == "" {
		merged.Traversal = tree.TraversalRecursive
	}
	return &merged
}

// MergeMatrixConfig merges CLI flags with the configuration file,
// respecting explicit flags
func (c *ConfigurationLoaderWithFlags) MergeMatrixConfig(base, override *domain.MatrixRequest) *domain.MatrixRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	merged.Paths = override.Paths
	merged.OutputWriter = override.OutputWriter
	merged.OutputPath = override.OutputPath
	merged.ConfigPath = override.ConfigPath

	merged.Root = config.Merge(merged.Root, override.Root, FlagRoot, c.explicitFlags)
	merged.Metrics = config.Merge(merged.Metrics, override.Metrics, FlagMetrics, c.explicitFlags)
	merged.Traversal = config.Merge(merged.Traversal, override.Traversal, FlagIterative, c.explicitFlags)
	merged.Timeout = config.Merge(merged.Timeout, override.Timeout, FlagTimeout, c.explicitFlags)
	merged.OutputFormat = config.Merge(merged.OutputFormat, override.OutputFormat, FlagFormat, c.explicitFlags)
	merged.Precision = config.Merge(merged.Precision, override.Precision, FlagPrecision, c.explicitFlags)
	merged.Recursive = config.Merge(merged.Recursive, override.Recursive, FlagRecursive, c.explicitFlags)
	merged.ShowProgress = config.Merge(merged.ShowProgress, override.ShowProgress, FlagNoProgress, c.explicitFlags)
	merged.IncludePatterns = config.MergeSlice(merged.IncludePatterns, override.IncludePatterns, FlagInclude, c.explicitFlags)
	merged.ExcludePatterns = config.MergeSlice(merged.ExcludePatterns, override.ExcludePatterns, FlagExclude, c.explicitFlags)

	if merged.Traversal == "" {
		merged.Traversal = tree.TraversalRecursive
	}
	return &merged
}
