package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ludo-technologies/treesim/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter service
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteCompare renders a comparison in the given format
func (f *OutputFormatterImpl) WriteCompare(response *domain.CompareResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return f.write(writer, f.formatCompareText(response))
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeCompareCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteMatrix renders a pairwise run in the given format
func (f *OutputFormatterImpl) WriteMatrix(response *domain.MatrixResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		text, err := f.formatMatrixText(response)
		if err != nil {
			return err
		}
		return f.write(writer, text)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeMatrixCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *OutputFormatterImpl) write(writer io.Writer, output string) error {
	if _, err := io.WriteString(writer, output); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// formatCompareText renders one "name: value" line per metric, followed by
// the tree details when requested
func (f *OutputFormatterImpl) formatCompareText(response *domain.CompareResponse) string {
	precision, showDetails := domain.DefaultPrecision, false
	if response.Request != nil {
		precision, showDetails = response.Request.Precision, response.Request.ShowDetails
	}

	var builder strings.Builder
	utils := NewFormatUtils()

	for _, metric := range response.Scores.Metrics() {
		builder.WriteString(fmt.Sprintf("%s: %s\n", metric.DisplayName(), utils.FormatScore(response.Scores[metric], precision)))
	}

	if !showDetails {
		return builder.String()
	}

	builder.WriteString("\n")
	builder.WriteString(utils.FormatSectionHeader("Details"))
	for _, side := range []struct {
		name    string
		summary domain.TreeSummary
	}{
		{"First", response.First},
		{"Second", response.Second},
	} {
		builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, side.name,
			fmt.Sprintf("%s (root %s, %d nodes, height %d)", side.summary.Path, side.summary.Root, side.summary.Size, side.summary.Height)))
		if side.summary.Canonical != "" {
			builder.WriteString(utils.FormatLabelWithIndent(SectionPadding*2, "Canonical", side.summary.Canonical))
		}
	}
	if response.Distances.Levenshtein != nil {
		builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Levenshtein distance (raw)", *response.Distances.Levenshtein))
	}
	if response.Distances.EditDistance != nil {
		builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Tree edit distance (raw)", *response.Distances.EditDistance))
	}
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Duration", utils.FormatDuration(response.Duration)))
	return builder.String()
}

func (f *OutputFormatterImpl) writeCompareCSV(response *domain.CompareResponse, writer io.Writer) error {
	precision := domain.DefaultPrecision
	if response.Request != nil {
		precision = response.Request.Precision
	}
	metrics := response.Scores.Metrics()

	header := []string{"first", "second"}
	row := []string{response.First.Path, response.Second.Path}
	for _, metric := range metrics {
		header = append(header, string(metric))
		row = append(row, strconv.FormatFloat(response.Scores[metric], 'f', precision, 64))
	}

	return f.writeCSV(writer, [][]string{header, row})
}

// formatMatrixText renders the pairwise results as an aligned table
func (f *OutputFormatterImpl) formatMatrixText(response *domain.MatrixResponse) (string, error) {
	precision := domain.DefaultPrecision
	if response.Request != nil {
		precision = response.Request.Precision
	}

	var builder strings.Builder
	utils := NewFormatUtils()

	builder.WriteString(utils.FormatMainHeader("Similarity Matrix"))

	metrics := matrixMetrics(response)
	tw := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "FIRST\tSECOND")
	for _, metric := range metrics {
		fmt.Fprintf(tw, "\t%s", metric)
	}
	fmt.Fprintln(tw)

	for _, entry := range response.Entries {
		fmt.Fprintf(tw, "%s\t%s", entry.First, entry.Second)
		if entry.Failed() {
			fmt.Fprintf(tw, "\terror: %s\n", entry.Error)
			continue
		}
		for _, metric := range metrics {
			fmt.Fprintf(tw, "\t%s", utils.FormatScore(entry.Scores[metric], precision))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return "", domain.NewOutputError("failed to render table", err)
	}

	builder.WriteString("\n")
	builder.WriteString(utils.FormatSectionHeader("Summary"))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Files", len(response.Files)))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Pairs", len(response.Entries)))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Failures", response.Failures))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Duration", utils.FormatDuration(response.Duration)))
	return builder.String(), nil
}

func (f *OutputFormatterImpl) writeMatrixCSV(response *domain.MatrixResponse, writer io.Writer) error {
	precision := domain.DefaultPrecision
	if response.Request != nil {
		precision = response.Request.Precision
	}
	metrics := matrixMetrics(response)

	header := []string{"first", "second"}
	for _, metric := range metrics {
		header = append(header, string(metric))
	}
	header = append(header, "error")

	records := [][]string{header}
	for _, entry := range response.Entries {
		row := []string{entry.First, entry.Second}
		for _, metric := range metrics {
			score, ok := entry.Scores[metric]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(score, 'f', precision, 64))
		}
		records = append(records, append(row, entry.Error))
	}

	return f.writeCSV(writer, records)
}

func (f *OutputFormatterImpl) writeCSV(writer io.Writer, records [][]string) error {
	w := csv.NewWriter(writer)
	if err := w.WriteAll(records); err != nil {
		return domain.NewOutputError("failed to write CSV", err)
	}
	return nil
}

// matrixMetrics returns the metric columns of a run
func matrixMetrics(response *domain.MatrixResponse) []domain.Metric {
	metrics := make([]domain.Metric, 0, len(response.Metrics))
	for _, name := range response.Metrics {
		metrics = append(metrics, domain.Metric(name))
	}
	if len(metrics) == 0 {
		metrics = domain.MetricSet(0).Metrics()
	}
	return metrics
}
