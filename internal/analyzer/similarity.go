package analyzer

import (
	"context"
	"log/slog"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/tree"
)

// Comparison is the outcome of comparing two trees
type Comparison struct {
	Scores domain.SimilarityReport

	Canonical1 string
	Canonical2 string

	// Raw distances; nil when the metric was not requested
	Levenshtein  *int
	EditDistance *int

	Size1, Size2     int
	Height1, Height2 int
}

// SimilarityAnalyzer runs the enabled metrics over a pair of trees and
// normalizes their raw distances into scores in [0,1].
type SimilarityAnalyzer struct {
	editDistance *ZhangShashaAnalyzer
	traversal    tree.Traversal
	logger       *slog.Logger
}

// NewSimilarityAnalyzer creates an aggregator. A nil cost model selects unit
// costs and a nil logger selects slog.Default().
func NewSimilarityAnalyzer(costModel CostModel, traversal tree.Traversal, logger *slog.Logger) *SimilarityAnalyzer {
	if !traversal.IsValid() {
		traversal = tree.TraversalRecursive
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SimilarityAnalyzer{
		editDistance: NewZhangShashaAnalyzer(costModel).WithTraversal(traversal),
		traversal:    traversal,
		logger:       logger,
	}
}

// Compare materializes both graphs and compares the resulting trees. A
// materialization failure aborts the whole comparison and names the side
// that failed.
func (a *SimilarityAnalyzer) Compare(ctx context.Context, first, second domain.TreeInput, metrics domain.MetricSet) (*Comparison, error) {
	t1, err := first.Graph.Materialize(first.Root, a.traversal)
	if err != nil {
		return nil, domain.NewComparisonError(domain.FirstTree, err)
	}
	t2, err := second.Graph.Materialize(second.Root, a.traversal)
	if err != nil {
		return nil, domain.NewComparisonError(domain.SecondTree, err)
	}
	return a.CompareTrees(ctx, t1, t2, metrics)
}

// PreparedTree holds the per-tree values every metric reads, so a tree that
// takes part in many comparisons is canonicalized and indexed only once.
type PreparedTree struct {
	Root      *tree.Node
	Canonical string
	Index     *tree.Index
	Size      int
	Height    int
}

// Prepare computes what metrics need from t. The canonical form is built
// only for STRICT or LEV and the postorder index only for TED.
func (a *SimilarityAnalyzer) Prepare(t *tree.Node, metrics domain.MetricSet) (*PreparedTree, error) {
	if t == nil {
		return nil, domain.NewInvalidInputError("cannot compare an empty tree", nil)
	}
	prepared := &PreparedTree{
		Root:   t,
		Size:   t.Size(),
		Height: t.Height(),
	}
	if metrics.Has(domain.MetricStrict) || metrics.Has(domain.MetricLevenshtein) {
		prepared.Canonical = tree.CanonicalizeWith(t, a.traversal)
	}
	if metrics.Has(domain.MetricTED) {
		prepared.Index = tree.NewIndexWith(t, a.traversal)
	}
	return prepared, nil
}

// CompareTrees compares two materialized trees. Only the requested metrics
// are computed and each at most once; the canonical forms are shared by
// STRICT and LEV.
func (a *SimilarityAnalyzer) CompareTrees(ctx context.Context, t1, t2 *tree.Node, metrics domain.MetricSet) (*Comparison, error) {
	p1, err := a.Prepare(t1, metrics)
	if err != nil {
		return nil, err
	}
	p2, err := a.Prepare(t2, metrics)
	if err != nil {
		return nil, err
	}
	return a.ComparePrepared(ctx, p1, p2, metrics)
}

// ComparePrepared compares two prepared trees. Both must have been prepared
// for at least the metrics requested here.
func (a *SimilarityAnalyzer) ComparePrepared(ctx context.Context, p1, p2 *PreparedTree, metrics domain.MetricSet) (*Comparison, error) {
	if p1 == nil || p2 == nil {
		return nil, domain.NewInvalidInputError("cannot compare an empty tree", nil)
	}

	result := &Comparison{
		Scores:     make(domain.SimilarityReport, len(metrics.Metrics())),
		Canonical1: p1.Canonical,
		Canonical2: p2.Canonical,
		Size1:      p1.Size,
		Size2:      p2.Size,
		Height1:    p1.Height,
		Height2:    p2.Height,
	}

	if metrics.Has(domain.MetricStrict) {
		result.Scores[domain.MetricStrict] = StrictSimilarity(result.Canonical1, result.Canonical2)
	}

	if metrics.Has(domain.MetricLevenshtein) {
		if err := ctx.Err(); err != nil {
			return nil, domain.NewAnalysisError("comparison cancelled", err)
		}
		distance := LevenshteinDistance(result.Canonical1, result.Canonical2)
		result.Levenshtein = &distance
		result.Scores[domain.MetricLevenshtein] = normalize(distance, max(len(result.Canonical1), len(result.Canonical2)))
	}

	if metrics.Has(domain.MetricTED) {
		ix1, ix2 := p1.Index, p2.Index
		if ix1 == nil {
			ix1 = tree.NewIndexWith(p1.Root, a.traversal)
		}
		if ix2 == nil {
			ix2 = tree.NewIndexWith(p2.Root, a.traversal)
		}
		distance, err := a.editDistance.ComputeDistanceContext(ctx, ix1, ix2)
		if err != nil {
			return nil, domain.NewAnalysisError("tree edit distance failed", err)
		}
		result.EditDistance = &distance
		result.Scores[domain.MetricTED] = normalize(distance, result.Size1+result.Size2)
	}

	a.logger.Debug("trees compared",
		"size1", result.Size1,
		"size2", result.Size2,
		"metrics", metrics.String(),
	)
	return result, nil
}

// StrictSimilarity is 1.0 when both canonical forms are identical, else 0.0
func StrictSimilarity(canonical1, canonical2 string) float64 {
	if canonical1 == canonical2 {
		return 1.0
	}
	return 0.0
}

// normalize turns a raw distance into a similarity, treating a zero bound as
// a perfect match
func normalize(distance, bound int) float64 {
	if bound <= 0 {
		return 1.0
	}
	score := 1.0 - float64(distance)/float64(bound)
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}
