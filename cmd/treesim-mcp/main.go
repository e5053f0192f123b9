package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/treesim/internal/config"
	"github.com/ludo-technologies/treesim/internal/version"
	"github.com/ludo-technologies/treesim/mcp"
)

const serverName = "treesim"

func main() {
	configPath := pflag.StringP("config", "c", "", "Configuration file path (default: nearest .treesim.toml)")
	metricsAddr := pflag.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	pflag.Parse()

	// MCP uses stdout for JSON-RPC, so logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, usedPath, err := config.ResolveConfig(*configPath, ".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)
	mcp.RegisterTools(server, mcp.NewHandlerSet(mcp.NewDependencies(cfg, usedPath, logger)))

	if *metricsAddr != "" {
		go serveMetrics(logger, *metricsAddr)
	}

	logger.Info("starting MCP server",
		"name", serverName,
		"version", version.Short(),
		"config", usedPath,
		"tools", []string{"compare_trees", "canonical_form", "similarity_matrix"})

	// Blocks until stdin closes or the process is terminated
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func serveMetrics(logger *slog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server stopped", "error", err)
	}
}
