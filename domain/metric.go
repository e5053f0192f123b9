package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Metric identifies one similarity metric
type Metric string

const (
	// MetricStrict is 1.0 when both canonical forms are equal, else 0.0
	MetricStrict Metric = "STRICT"

	// MetricLevenshtein is the normalized Levenshtein similarity of the canonical forms
	MetricLevenshtein Metric = "LEV"

	// MetricTED is the normalized Zhang-Shasha tree edit similarity
	MetricTED Metric = "TED"
)

// AllMetrics lists every metric in report order
var AllMetrics = []Metric{MetricStrict, MetricLevenshtein, MetricTED}

// DisplayName returns the name used in line-oriented text reports
func (m Metric) DisplayName() string {
	switch m {
	case MetricStrict:
		return "strict similarity"
	case MetricLevenshtein:
		return "Levenshtein distance"
	case MetricTED:
		return "TED"
	default:
		return string(m)
	}
}

// ParseMetric parses a metric name; matching is case-insensitive and accepts
// the long aliases "levenshtein" and "tree_edit_distance".
func ParseMetric(s string) (Metric, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STRICT":
		return MetricStrict, nil
	case "LEV", "LEVENSHTEIN":
		return MetricLevenshtein, nil
	case "TED", "TREE_EDIT_DISTANCE":
		return MetricTED, nil
	default:
		return "", NewInvalidInputError(fmt.Sprintf("unknown metric %q (valid: STRICT, LEV, TED)", s), nil)
	}
}

// MetricSet is a set of enabled metrics. The zero value means "unset" and
// enables every metric.
type MetricSet uint8

const (
	metricBitStrict MetricSet = 1 << iota
	metricBitLevenshtein
	metricBitTED

	metricBitAll = metricBitStrict | metricBitLevenshtein | metricBitTED
)

func metricBit(m Metric) MetricSet {
	switch m {
	case MetricStrict:
		return metricBitStrict
	case MetricLevenshtein:
		return metricBitLevenshtein
	case MetricTED:
		return metricBitTED
	default:
		return 0
	}
}

// NewMetricSet returns the set containing the given metrics
func NewMetricSet(metrics ...Metric) MetricSet {
	var s MetricSet
	for _, m := range metrics {
		s = s.With(m)
	}
	return s
}

// ParseMetricSet parses a list of metric names. Each element may itself be a
// comma-separated list, so both []string{"STRICT,LEV"} and
// []string{"STRICT", "LEV"} are accepted. An empty list yields the zero set.
func ParseMetricSet(names []string) (MetricSet, error) {
	var s MetricSet
	for _, name := range names {
		for _, token := range strings.Split(name, ",") {
			if strings.TrimSpace(token) == "" {
				continue
			}
			m, err := ParseMetric(token)
			if err != nil {
				return 0, err
			}
			s = s.With(m)
		}
	}
	return s, nil
}

// With returns s with m added
func (s MetricSet) With(m Metric) MetricSet {
	return s | metricBit(m)
}

// IsUnset reports whether no metric was selected explicitly
func (s MetricSet) IsUnset() bool {
	return s&metricBitAll == 0
}

// Effective resolves the unset set to all metrics
func (s MetricSet) Effective() MetricSet {
	if s.IsUnset() {
		return metricBitAll
	}
	return s & metricBitAll
}

// Has reports whether m is enabled, treating the unset set as all metrics
func (s MetricSet) Has(m Metric) bool {
	bit := metricBit(m)
	return bit != 0 && s.Effective()&bit != 0
}

// Metrics returns the enabled metrics in report order
func (s MetricSet) Metrics() []Metric {
	out := make([]Metric, 0, len(AllMetrics))
	for _, m := range AllMetrics {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Names returns the enabled metric names in report order
func (s MetricSet) Names() []string {
	metrics := s.Metrics()
	out := make([]string, len(metrics))
	for i, m := range metrics {
		out[i] = string(m)
	}
	return out
}

func (s MetricSet) String() string {
	return strings.Join(s.Names(), ",")
}

// SimilarityReport maps each computed metric to a score in [0,1]
type SimilarityReport map[Metric]float64

// Metrics returns the metrics present in the report in report order, with
// any unknown keys appended alphabetically
func (r SimilarityReport) Metrics() []Metric {
	out := make([]Metric, 0, len(r))
	known := make(map[Metric]bool, len(AllMetrics))
	for _, m := range AllMetrics {
		known[m] = true
		if _, ok := r[m]; ok {
			out = append(out, m)
		}
	}

	var extra []Metric
	for m := range r {
		if !known[m] {
			extra = append(extra, m)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
