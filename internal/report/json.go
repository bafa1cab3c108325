package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/sitescore/internal/model"
)

// JSONWriter renders reports, summaries and comparisons as JSON documents,
// one per call, each terminated by a newline.
type JSONWriter struct {
	baseWriter

	prefix, indent string

	// version, when set, wraps full reports in an Envelope.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent, each line starting with prefix.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion makes Write emit an Envelope carrying version and the summary.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter returns a compact JSONWriter unless configured otherwise.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Envelope is the document written for a full report when a version is set.
type Envelope struct {
	// Version is the sitescore version that produced the report.
	Version string                  `json:"version"`
	Report  *model.EvaluationReport `json:"report"`
	Summary *model.Summary          `json:"summary"`
}

// Write implements Writer.
func (w *JSONWriter) Write(report *model.EvaluationReport) (int, error) {
	if w.version == "" {
		return w.encode(report)
	}
	return w.encode(&Envelope{
		Version: w.version,
		Report:  report,
		Summary: model.NewSummary(report),
	})
}

// WriteReports writes reports as one JSON array, each element shaped
// like the document Write would produce.
func (w *JSONWriter) WriteReports(reports []*model.EvaluationReport) (int, error) {
	if w.version == "" {
		return w.encode(nonNil(reports))
	}
	envelopes := make([]*Envelope, len(reports))
	for i, r := range reports {
		envelopes[i] = &Envelope{Version: w.version, Report: r, Summary: model.NewSummary(r)}
	}
	return w.encode(envelopes)
}

// WriteSummaries writes summaries as one JSON array.
func (w *JSONWriter) WriteSummaries(summaries []*model.Summary) (int, error) {
	return w.encode(nonNil(summaries))
}

// nonNil makes an empty batch encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// WriteSummary implements Writer.
func (w *JSONWriter) WriteSummary(summary *model.Summary) (int, error) {
	return w.encode(summary)
}

// WriteComparison implements ComparisonWriter.
func (w *JSONWriter) WriteComparison(cmp *model.Comparison) (int, error) {
	return w.encode(cmp)
}

// encode buffers the document so a failed encoding writes nothing.
// Targets and findings often contain '&' and '<', which stay unescaped.
func (w *JSONWriter) encode(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indent != "" || w.prefix != "" {
		enc.SetIndent(w.prefix, w.indent)
	}
	if err := enc.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
