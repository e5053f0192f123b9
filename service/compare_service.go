package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/analyzer"
	"github.com/ludo-technologies/treesim/internal/metrics"
	"github.com/ludo-technologies/treesim/internal/tree"
	"github.com/ludo-technologies/treesim/internal/version"
)

// CompareServiceImpl implements the CompareService interface
type CompareServiceImpl struct {
	loader domain.GraphLoader
	logger *slog.Logger
}

// NewCompareService creates a new compare service. A nil loader reads files
// with GraphLoaderImpl and a nil logger selects slog.Default().
func NewCompareService(loader domain.GraphLoader, logger *slog.Logger) *CompareServiceImpl {
	if loader == nil {
		loader = NewGraphLoader()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CompareServiceImpl{
		loader: loader,
		logger: logger,
	}
}

// Compare loads both graph files and compares them
func (s *CompareServiceImpl) Compare(ctx context.Context, req *domain.CompareRequest) (*domain.CompareResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	first, err := s.loader.Load(ctx, req.FirstPath)
	if err != nil {
		s.record(startTime, err)
		return nil, err
	}
	second, err := s.loader.Load(ctx, req.SecondPath)
	if err != nil {
		s.record(startTime, err)
		return nil, err
	}

	return s.compare(ctx, req, first, second, startTime)
}

// CompareGraphs compares two graphs that are already in memory. The paths of
// req are only used to label the result.
func (s *CompareServiceImpl) CompareGraphs(ctx context.Context, req *domain.CompareRequest, first, second tree.Graph) (*domain.CompareResponse, error) {
	if req.FirstRoot == "" || req.SecondRoot == "" {
		return nil, domain.NewValidationError("root labels cannot be empty")
	}
	if req.Traversal != "" && !req.Traversal.IsValid() {
		return nil, domain.NewValidationError("traversal must be 'recursive' or 'iterative'")
	}
	return s.compare(ctx, req, first, second, time.Now())
}

func (s *CompareServiceImpl) compare(ctx context.Context, req *domain.CompareRequest, first, second tree.Graph, startTime time.Time) (*domain.CompareResponse, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	sim := analyzer.NewSimilarityAnalyzer(nil, req.Traversal, s.logger)
	result, err := sim.Compare(ctx,
		domain.TreeInput{Graph: first, Root: req.FirstRoot},
		domain.TreeInput{Graph: second, Root: req.SecondRoot},
		req.Metrics,
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = domain.NewAnalysisError("comparison timed out after "+req.Timeout.String(), err)
		}
		s.record(startTime, err)
		s.logger.Warn("comparison failed",
			"first", req.FirstPath,
			"second", req.SecondPath,
			"error", err,
		)
		return nil, err
	}

	response := &domain.CompareResponse{
		ID: uuid.NewString(),
		First: domain.TreeSummary{
			Path:      req.FirstPath,
			Root:      req.FirstRoot,
			Size:      result.Size1,
			Height:    result.Height1,
			Canonical: result.Canonical1,
		},
		Second: domain.TreeSummary{
			Path:      req.SecondPath,
			Root:      req.SecondRoot,
			Size:      result.Size2,
			Height:    result.Height2,
			Canonical: result.Canonical2,
		},
		Scores: result.Scores,
		Distances: domain.RawDistances{
			Levenshtein:  result.Levenshtein,
			EditDistance: result.EditDistance,
		},
		Metrics:     req.Metrics.Names(),
		Duration:    time.Since(startTime).Milliseconds(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Request:     req,
	}

	s.record(startTime, nil)
	metrics.TreeSize.Observe(float64(result.Size1))
	metrics.TreeSize.Observe(float64(result.Size2))
	for metric, score := range result.Scores {
		metrics.SimilarityScore.WithLabelValues(string(metric)).Observe(score)
	}

	s.logger.Info("comparison complete",
		"id", response.ID,
		"first", req.FirstPath,
		"second", req.SecondPath,
		"metrics", req.Metrics.String(),
		"duration_ms", response.Duration,
	)
	return response, nil
}

func (s *CompareServiceImpl) record(startTime time.Time, err error) {
	metrics.ComparisonsTotal.WithLabelValues(metrics.Status(err)).Inc()
	metrics.ComparisonDuration.Observe(float64(time.Since(startTime).Milliseconds()))
}
