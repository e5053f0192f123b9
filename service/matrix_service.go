package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/analyzer"
	"github.com/ludo-technologies/treesim/internal/metrics"
	"github.com/ludo-technologies/treesim/internal/version"
)

// MatrixServiceImpl implements the MatrixService interface
type MatrixServiceImpl struct {
	collector domain.FileCollector
	loader    domain.GraphLoader
	progress  domain.ProgressManager
	executor  domain.ParallelExecutor
	logger    *slog.Logger
}

// NewMatrixService creates a new matrix service. Nil collaborators select
// the default implementations; a nil progress manager shows no progress.
func NewMatrixService(collector domain.FileCollector, loader domain.GraphLoader, progress domain.ProgressManager, logger *slog.Logger) *MatrixServiceImpl {
	if loader == nil {
		loader = NewGraphLoader()
	}
	if collector == nil {
		collector = NewFileCollector(loader)
	}
	if progress == nil {
		progress = NoOpProgressManager{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MatrixServiceImpl{
		collector: collector,
		loader:    loader,
		progress:  progress,
		executor:  NewParallelExecutor(),
		logger:    logger,
	}
}

// WithParallelExecutor replaces the executor that loads graph files
func (s *MatrixServiceImpl) WithParallelExecutor(executor domain.ParallelExecutor) *MatrixServiceImpl {
	s.executor = executor
	return s
}

// loadedTree is a file materialized and prepared once for all of its pairs
type loadedTree struct {
	prepared *analyzer.PreparedTree
	err      error
}

// BuildMatrix compares every unordered pair of collected files, self pairs
// included. A pair that cannot be compared is recorded as a failed entry and
// the run continues.
func (s *MatrixServiceImpl) BuildMatrix(ctx context.Context, req *domain.MatrixRequest) (*domain.MatrixResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	files, err := s.collector.CollectGraphFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no graph files found in the specified paths", nil)
	}

	// Files are independent, so they are loaded concurrently; a file that
	// fails is recorded in its slot rather than aborting the run
	sim := analyzer.NewSimilarityAnalyzer(nil, req.Traversal, s.logger)
	trees := make([]loadedTree, len(files))
	err = s.executor.Execute(ctx, len(files), func(ctx context.Context, i int) error {
		trees[i] = s.load(ctx, sim, files[i], req)
		return nil
	})
	if err != nil {
		return nil, domain.NewAnalysisError("matrix run cancelled", err)
	}

	total := len(files) * (len(files) + 1) / 2
	if req.ShowProgress {
		s.progress.Initialize(total)
		s.progress.Start()
		defer s.progress.Close()
	}

	response := &domain.MatrixResponse{
		ID:      uuid.NewString(),
		Files:   files,
		Metrics: req.Metrics.Names(),
		Entries: make([]*domain.MatrixEntry, 0, total),
		Request: req,
	}

	done := 0
	for i := range files {
		for j := i; j < len(files); j++ {
			if err := ctx.Err(); err != nil {
				return nil, domain.NewAnalysisError("matrix run cancelled", err)
			}

			entry := s.comparePair(ctx, sim, req, files[i], files[j], trees[i], trees[j])
			if entry.Failed() {
				response.Failures++
			}
			metrics.MatrixPairs.WithLabelValues(statusOf(entry)).Inc()
			response.Entries = append(response.Entries, entry)

			done++
			if req.ShowProgress {
				s.progress.Update(done, total)
			}
		}
	}

	if req.ShowProgress {
		s.progress.Complete(response.Failures == 0)
	}

	response.Duration = time.Since(startTime).Milliseconds()
	response.GeneratedAt = time.Now().Format(time.RFC3339)
	response.Version = version.Version

	s.logger.Info("matrix complete",
		"id", response.ID,
		"files", len(files),
		"pairs", len(response.Entries),
		"failures", response.Failures,
		"duration_ms", response.Duration,
	)
	return response, nil
}

func (s *MatrixServiceImpl) load(ctx context.Context, sim *analyzer.SimilarityAnalyzer, file string, req *domain.MatrixRequest) loadedTree {
	graph, err := s.loader.Load(ctx, file)
	if err != nil {
		s.logger.Warn("cannot load graph", "file", file, "error", err)
		return loadedTree{err: err}
	}
	root, err := graph.Materialize(DefaultRootFor(file, req.Root), req.Traversal)
	if err != nil {
		s.logger.Warn("cannot build tree", "file", file, "error", err)
		return loadedTree{err: err}
	}
	prepared, err := sim.Prepare(root, req.Metrics)
	if err != nil {
		return loadedTree{err: err}
	}
	return loadedTree{prepared: prepared}
}

func (s *MatrixServiceImpl) comparePair(ctx context.Context, sim *analyzer.SimilarityAnalyzer, req *domain.MatrixRequest, first, second string, t1, t2 loadedTree) *domain.MatrixEntry {
	entry := &domain.MatrixEntry{First: first, Second: second}

	switch {
	case t1.err != nil:
		entry.Error = domain.NewComparisonError(domain.FirstTree, t1.err).Error()
		return entry
	case t2.err != nil:
		entry.Error = domain.NewComparisonError(domain.SecondTree, t2.err).Error()
		return entry
	}

	pairCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		pairCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	result, err := sim.ComparePrepared(pairCtx, t1.prepared, t2.prepared, req.Metrics)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	entry.Scores = result.Scores
	return entry
}

func statusOf(entry *domain.MatrixEntry) string {
	if entry.Failed() {
		return metrics.StatusError
	}
	return metrics.StatusOK
}
