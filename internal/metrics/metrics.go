package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Comparison status label values
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	ComparisonsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treesim_comparisons_total",
		Help: "Total number of tree comparisons, labelled by status.",
	}, []string{"status"})

	ComparisonDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "treesim_comparison_duration_ms",
		Help:    "Wall time of one comparison, loading included, in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 10000},
	})

	SimilarityScore = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "treesim_similarity_score",
		Help:    "Distribution of similarity scores, labelled by metric.",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	}, []string{"metric"})

	TreeSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "treesim_tree_size_nodes",
		Help:    "Number of nodes in each compared tree.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	GraphsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treesim_graphs_loaded_total",
		Help: "Total number of graph files read, labelled by format and status.",
	}, []string{"format", "status"})

	MatrixPairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treesim_matrix_pairs_total",
		Help: "Total number of file pairs compared by matrix runs, labelled by status.",
	}, []string{"status"})
)

// Status maps an error to a status label value
func Status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
