package mcp

import (
	"log/slog"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/config"
	"github.com/ludo-technologies/treesim/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	loader     *service.GraphLoaderImpl
	config     *config.Config
	configPath string
	logger     *slog.Logger
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, configPath string, logger *slog.Logger) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dependencies{
		loader:     service.NewGraphLoader(),
		config:     cfg,
		configPath: configPath,
		logger:     logger,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the config file the snapshot was read from (empty for defaults).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// Loader returns the graph loader shared by every tool.
func (d *Dependencies) Loader() *service.GraphLoaderImpl {
	return d.loader
}

// CompareService builds a comparison service over the shared loader.
func (d *Dependencies) CompareService() *service.CompareServiceImpl {
	return service.NewCompareService(d.loader, d.logger)
}

// CanonicalService builds a canonical-form service over the shared loader.
func (d *Dependencies) CanonicalService() domain.CanonicalService {
	return service.NewCanonicalService(d.loader)
}

// MatrixService builds a matrix service without progress output; stdout
// belongs to the JSON-RPC stream.
func (d *Dependencies) MatrixService() domain.MatrixService {
	return service.NewMatrixService(nil, d.loader, service.NoOpProgressManager{}, d.logger)
}
