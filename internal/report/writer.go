package report

import (
	"io"
	"strings"

	"github.com/nao1215/sitescore/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write renders a full report and returns the number of bytes written.
	Write(report *model.EvaluationReport) (int, error)

	// WriteSummary outputs only the classification counts.
	WriteSummary(summary *model.Summary) (int, error)
}

// ComparisonWriter renders the difference between two evaluations.
type ComparisonWriter interface {
	WriteComparison(cmp *model.Comparison) (int, error)
}

// MultiWriter fans every report out to several Writers, for example a
// colored terminal view and a JSON file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter returns a MultiWriter over writers, used in order.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// each calls fn for every writer and sums the bytes written.
// The first error stops the remaining writers.
func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	total := 0
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Write implements Writer.
func (m *MultiWriter) Write(report *model.EvaluationReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(report) })
}

// WriteSummary implements Writer.
func (m *MultiWriter) WriteSummary(summary *model.Summary) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteSummary(summary) })
}

// WriteComparison implements ComparisonWriter. Writers that cannot render
// comparisons are skipped.
func (m *MultiWriter) WriteComparison(cmp *model.Comparison) (int, error) {
	return m.each(func(w Writer) (int, error) {
		if cw, ok := w.(ComparisonWriter); ok {
			return cw.WriteComparison(cmp)
		}
		return 0, nil
	})
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// status describes whether the evaluation completed.
func status(report *model.EvaluationReport) string {
	if report.Error != "" {
		return "ERROR - " + report.Error
	}
	return "Complete"
}

// detailLines flattens detail rows into one line per row.
func detailLines(rows []model.DetailRow) []string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, " | "))
	}
	return lines
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
