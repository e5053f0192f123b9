package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		input    string
		expected Metric
		wantErr  bool
	}{
		{input: "STRICT", expected: MetricStrict},
		{input: "strict", expected: MetricStrict},
		{input: " lev ", expected: MetricLevenshtein},
		{input: "Levenshtein", expected: MetricLevenshtein},
		{input: "TED", expected: MetricTED},
		{input: "tree_edit_distance", expected: MetricTED},
		{input: "cosine", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMetric(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ErrCodeInvalidInput, ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}
}

func TestMetricSet_ZeroValueEnablesAll(t *testing.T) {
	var s MetricSet
	assert.True(t, s.IsUnset())
	for _, m := range AllMetrics {
		assert.True(t, s.Has(m), m)
	}
	assert.Equal(t, []string{"STRICT", "LEV", "TED"}, s.Names())
	assert.Equal(t, "STRICT,LEV,TED", s.String())
}

func TestMetricSet_Subset(t *testing.T) {
	s := NewMetricSet(MetricTED, MetricStrict)
	assert.False(t, s.IsUnset())
	assert.True(t, s.Has(MetricStrict))
	assert.False(t, s.Has(MetricLevenshtein))
	assert.True(t, s.Has(MetricTED))

	// Report order does not depend on insertion order
	assert.Equal(t, []Metric{MetricStrict, MetricTED}, s.Metrics())
	assert.False(t, s.Has(Metric("bogus")))
}

func TestParseMetricSet(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []Metric
		wantErr  bool
	}{
		{name: "empty", input: nil, expected: AllMetrics},
		{name: "separate values", input: []string{"LEV", "TED"}, expected: []Metric{MetricLevenshtein, MetricTED}},
		{name: "comma list", input: []string{"ted,strict"}, expected: []Metric{MetricStrict, MetricTED}},
		{name: "duplicates", input: []string{"LEV", "lev,LEVENSHTEIN"}, expected: []Metric{MetricLevenshtein}},
		{name: "blank tokens ignored", input: []string{"STRICT,,"}, expected: []Metric{MetricStrict}},
		{name: "unknown", input: []string{"STRICT,JACCARD"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseMetricSet(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.Metrics())
		})
	}
}

func TestMetric_DisplayName(t *testing.T) {
	assert.Equal(t, "strict similarity", MetricStrict.DisplayName())
	assert.Equal(t, "Levenshtein distance", MetricLevenshtein.DisplayName())
	assert.Equal(t, "TED", MetricTED.DisplayName())
	assert.Equal(t, "OTHER", Metric("OTHER").DisplayName())
}

func TestSimilarityReport_Metrics(t *testing.T) {
	r := SimilarityReport{
		MetricTED:    0.5,
		"ZZZ":        1,
		MetricStrict: 0,
		"AAA":        1,
	}
	assert.Equal(t, []Metric{MetricStrict, MetricTED, "AAA", "ZZZ"}, r.Metrics())
}
