package analyzer

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/tree"
)

func input(g tree.Graph) domain.TreeInput {
	return domain.TreeInput{Graph: g, Root: "main"}
}

func TestSimilarityAnalyzer_Compare_DeleteOneLeaf(t *testing.T) {
	analyzer := NewSimilarityAnalyzer(nil, tree.TraversalRecursive, nil)

	result, err := analyzer.Compare(context.Background(),
		input(tree.Graph{"main": {"a", "b"}, "a": {}, "b": {}}),
		input(tree.Graph{"main": {"x"}, "x": {}}),
		0,
	)
	require.NoError(t, err)

	assert.Equal(t, "(()())", result.Canonical1)
	assert.Equal(t, "(())", result.Canonical2)
	assert.Equal(t, 3, result.Size1)
	assert.Equal(t, 2, result.Size2)

	require.NotNil(t, result.Levenshtein)
	require.NotNil(t, result.EditDistance)
	assert.Equal(t, 2, *result.Levenshtein)
	assert.Equal(t, 1, *result.EditDistance)

	assert.Len(t, result.Scores, 3)
	assert.Equal(t, 0.0, result.Scores[domain.MetricStrict])
	assert.InDelta(t, 0.6667, result.Scores[domain.MetricLevenshtein], 1e-4)
	assert.InDelta(t, 0.8, result.Scores[domain.MetricTED], 1e-9)
}

func TestSimilarityAnalyzer_Compare_SingleNodes(t *testing.T) {
	for _, traversal := range []tree.Traversal{tree.TraversalRecursive, tree.TraversalIterative} {
		t.Run(string(traversal), func(t *testing.T) {
			analyzer := NewSimilarityAnalyzer(nil, traversal, nil)
			g := tree.Graph{"main": {}}

			result, err := analyzer.Compare(context.Background(), input(g), input(g), 0)
			require.NoError(t, err)

			assert.Equal(t, "()", result.Canonical1)
			assert.Equal(t, "()", result.Canonical2)
			assert.Equal(t, domain.SimilarityReport{
				domain.MetricStrict:      1.0,
				domain.MetricLevenshtein: 1.0,
				domain.MetricTED:         1.0,
			}, result.Scores)
		})
	}
}

func TestSimilarityAnalyzer_Compare_Failures(t *testing.T) {
	valid := tree.Graph{"main": {"a"}, "a": {}}
	unknown := tree.Graph{"main": {"a", "ghost"}, "a": {}}
	cyclic := tree.Graph{"main": {"a"}, "a": {"main"}}

	tests := []struct {
		name   string
		first  tree.Graph
		second tree.Graph
		side   domain.TreeSide
		code   string
	}{
		{name: "unknown node in first tree", first: unknown, second: valid, side: domain.FirstTree, code: domain.ErrCodeUnknownNode},
		{name: "unknown node in second tree", first: valid, second: unknown, side: domain.SecondTree, code: domain.ErrCodeUnknownNode},
		{name: "cycle in second tree", first: valid, second: cyclic, side: domain.SecondTree, code: domain.ErrCodeCycleDetected},
		{name: "missing root", first: tree.Graph{}, second: valid, side: domain.FirstTree, code: domain.ErrCodeUnknownNode},
	}

	analyzer := NewSimilarityAnalyzer(nil, tree.TraversalRecursive, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := analyzer.Compare(context.Background(), input(tt.first), input(tt.second), 0)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.code, domain.ErrorCode(err))

			var sideErr *domain.ComparisonError
			require.True(t, errors.As(err, &sideErr))
			assert.Equal(t, tt.side, sideErr.Side)
		})
	}

	_, err := analyzer.Compare(context.Background(), input(unknown), input(valid), 0)
	var unknownErr *tree.UnknownNodeError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "ghost", unknownErr.Label)
	assert.Equal(t, "main", unknownErr.Parent)
}

func TestSimilarityAnalyzer_MetricSubsets(t *testing.T) {
	first := input(tree.Graph{"main": {"a", "b"}, "a": {}, "b": {}})
	second := input(tree.Graph{"main": {"x"}, "x": {}})
	analyzer := NewSimilarityAnalyzer(nil, tree.TraversalRecursive, nil)

	tests := []struct {
		name     string
		metrics  domain.MetricSet
		expected []domain.Metric
	}{
		{name: "unset runs everything", metrics: 0, expected: domain.AllMetrics},
		{name: "strict only", metrics: domain.NewMetricSet(domain.MetricStrict), expected: []domain.Metric{domain.MetricStrict}},
		{name: "ted only", metrics: domain.NewMetricSet(domain.MetricTED), expected: []domain.Metric{domain.MetricTED}},
		{
			name:     "duplicates collapse",
			metrics:  domain.NewMetricSet(domain.MetricLevenshtein, domain.MetricLevenshtein, domain.MetricStrict),
			expected: []domain.Metric{domain.MetricStrict, domain.MetricLevenshtein},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := analyzer.Compare(context.Background(), first, second, tt.metrics)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Scores.Metrics())

			assert.Equal(t, tt.metrics.Has(domain.MetricLevenshtein), result.Levenshtein != nil)
			assert.Equal(t, tt.metrics.Has(domain.MetricTED), result.EditDistance != nil)
		})
	}
}

func TestSimilarityAnalyzer_TEDOnlySkipsCanonicalForms(t *testing.T) {
	analyzer := NewSimilarityAnalyzer(nil, tree.TraversalRecursive, nil)
	g := tree.Graph{"main": {"a"}, "a": {}}

	result, err := analyzer.Compare(context.Background(), input(g), input(g), domain.NewMetricSet(domain.MetricTED))
	require.NoError(t, err)
	assert.Empty(t, result.Canonical1)
	assert.Empty(t, result.Canonical2)
}

func TestSimilarityAnalyzer_ScoresInUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	analyzer := NewSimilarityAnalyzer(nil, tree.TraversalIterative, nil)

	for i := 0; i < 150; i++ {
		t1 := randomTree(rng, 1+rng.Intn(20))
		t2 := randomTree(rng, 1+rng.Intn(20))

		result, err := analyzer.CompareTrees(context.Background(), t1, t2, 0)
		require.NoError(t, err)
		for metric, score := range result.Scores {
			assert.GreaterOrEqual(t, score, 0.0, metric)
			assert.LessOrEqual(t, score, 1.0, metric)
		}

		self, err := analyzer.CompareTrees(context.Background(), t1, t1, 0)
		require.NoError(t, err)
		assert.Equal(t, 1.0, self.Scores[domain.MetricTED])
		assert.Equal(t, 1.0, self.Scores[domain.MetricStrict])
	}
}

func TestSimilarityAnalyzer_Prepare(t *testing.T) {
	analyzer := NewSimilarityAnalyzer(nil, tree.TraversalRecursive, nil)
	root, err := tree.Graph{"main": {"a", "b"}, "a": {"c"}, "b": {}, "c": {}}.Materialize("main", tree.TraversalRecursive)
	require.NoError(t, err)

	tests := []struct {
		name          string
		metrics       domain.MetricSet
		wantCanonical string
		wantIndex     bool
	}{
		{name: "all metrics", metrics: 0, wantCanonical: "((())())", wantIndex: true},
		{name: "strict only", metrics: domain.NewMetricSet(domain.MetricStrict), wantCanonical: "((())())"},
		{name: "ted only", metrics: domain.NewMetricSet(domain.MetricTED), wantIndex: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prepared, err := analyzer.Prepare(root, tt.metrics)
			require.NoError(t, err)
			assert.Equal(t, 4, prepared.Size)
			assert.Equal(t, 2, prepared.Height)
			assert.Equal(t, tt.wantCanonical, prepared.Canonical)
			assert.Equal(t, tt.wantIndex, prepared.Index != nil)
		})
	}

	_, err = analyzer.Prepare(nil, 0)
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
}

func TestSimilarityAnalyzer_ComparePreparedMatchesCompareTrees(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	analyzer := NewSimilarityAnalyzer(nil, tree.TraversalIterative, nil)

	trees := make([]*tree.Node, 6)
	prepared := make([]*PreparedTree, len(trees))
	for i := range trees {
		trees[i] = randomTree(rng, 1+rng.Intn(15))
		p, err := analyzer.Prepare(trees[i], 0)
		require.NoError(t, err)
		prepared[i] = p
	}

	// Each prepared tree is reused against every other one
	for i := range trees {
		for j := i; j < len(trees); j++ {
			want, err := analyzer.CompareTrees(context.Background(), trees[i], trees[j], 0)
			require.NoError(t, err)
			got, err := analyzer.ComparePrepared(context.Background(), prepared[i], prepared[j], 0)
			require.NoError(t, err)
			assert.Equal(t, want.Scores, got.Scores)
			assert.Equal(t, *want.EditDistance, *got.EditDistance)
			assert.Equal(t, *want.Levenshtein, *got.Levenshtein)
		}
	}
}

func TestSimilarityAnalyzer_CompareTrees_Nil(t *testing.T) {
	analyzer := NewSimilarityAnalyzer(nil, "", nil)
	_, err := analyzer.CompareTrees(context.Background(), nil, tree.NewNode("main"), 0)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
}

func TestSimilarityAnalyzer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := NewSimilarityAnalyzer(nil, tree.TraversalRecursive, nil)
	g := tree.Graph{"main": {"a"}, "a": {}}
	_, err := analyzer.Compare(ctx, input(g), input(g), domain.NewMetricSet(domain.MetricTED))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.ErrCodeAnalysisError, domain.ErrorCode(err))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 1.0, normalize(0, 0))
	assert.Equal(t, 1.0, normalize(0, 5))
	assert.Equal(t, 0.0, normalize(5, 5))
	assert.InDelta(t, 0.8, normalize(1, 5), 1e-9)
}
