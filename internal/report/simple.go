package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/nao1215/sitescore/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports with color-coded
// classifications.
type SimpleWriter struct {
	baseWriter

	// colored enables ANSI colors. fatih/color still disables them when
	// the output is not a terminal or NO_COLOR is set.
	colored bool

	// verbose prints detail rows and findings.
	verbose bool

	// failingOnly hides good and neutral results.
	failingOnly bool

	upper cases.Caser
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColor enables or disables colored output.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.colored = enabled
	}
}

// WithVerbose enables verbose output with details and findings.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithFailingOnly restricts the output to bad and critical results.
func WithFailingOnly(failingOnly bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.failingOnly = failingOnly
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		colored:    true,
		upper:      cases.Upper(language.English),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// paint returns a function coloring text for the classification.
func (w *SimpleWriter) paint(c model.Classification) func(a ...any) string {
	var attrs []color.Attribute
	switch c {
	case model.ClassificationGood:
		attrs = []color.Attribute{color.FgGreen}
	case model.ClassificationNeutral:
		attrs = []color.Attribute{color.FgCyan}
	case model.ClassificationBad:
		attrs = []color.Attribute{color.FgYellow}
	case model.ClassificationCritical:
		attrs = []color.Attribute{color.FgRed, color.Bold}
	}
	col := color.New(attrs...)
	if !w.colored {
		col.DisableColor()
	}
	return col.SprintFunc()
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.EvaluationReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeCounts(&sb, model.NewSummary(report).Counts)
	for _, cr := range report.Categories {
		w.writeCategory(&sb, cr)
	}
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// WriteSummary outputs the classification counts per category.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Target:     %s\n", summary.Target)
	fmt.Fprintf(&sb, "Evaluated:  %s\n\n", summary.EvaluatedAt.Format("2006-01-02 15:04:05 MST"))
	w.writeCounts(&sb, summary.Counts)
	for _, cs := range summary.Categories {
		fmt.Fprintf(&sb, "  %-9s %s\n", w.upper.String(cs.Category.String()), countsLine(cs.Counts))
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

func countsLine(c model.Counts) string {
	return fmt.Sprintf("good=%d neutral=%d bad=%d critical=%d", c.Good, c.Neutral, c.Bad, c.Critical)
}

func writeRule(sb *strings.Builder, ch string) {
	sb.WriteString(strings.Repeat(ch, ruleWidth))
	sb.WriteString("\n")
}

// writeHeader writes the report header with evaluation information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.EvaluationReport) {
	sb.WriteString("\n")
	writeRule(sb, "=")
	sb.WriteString("                          SITESCORE REPORT\n")
	writeRule(sb, "=")
	sb.WriteString("\n")

	fmt.Fprintf(sb, "Target:       %s\n", report.Target)
	fmt.Fprintf(sb, "Evaluated:    %s\n", report.EvaluatedAt.Format("2006-01-02 15:04:05 MST"))
	if !report.ScannedAt.IsZero() {
		fmt.Fprintf(sb, "Scanned:      %s\n", report.ScannedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if report.Fingerprint != "" {
		fmt.Fprintf(sb, "Fingerprint:  %s\n", report.Fingerprint)
	}
	if report.Source != "" {
		fmt.Fprintf(sb, "Source:       %s\n", report.Source)
	}
	fmt.Fprintf(sb, "Status:       %s\n\n", status(report))
}

// writeCounts writes the classification summary, most severe first.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, counts model.Counts) {
	writeRule(sb, "-")
	sb.WriteString("SUMMARY\n")
	writeRule(sb, "-")
	sb.WriteString("\n")

	for i := len(model.Classifications) - 1; i >= 0; i-- {
		c := model.Classifications[i]
		label := fmt.Sprintf("%-9s", w.upper.String(c.String())+":")
		fmt.Fprintf(sb, "  %s %d\n", w.paint(c)(label), counts.Of(c))
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  TOTAL:    %d results (%d devaluating, %d unranked)\n\n",
		counts.Total(), counts.Devaluating, counts.Unranked)
}

// writeCategory writes the results of one category in catalogue order.
func (w *SimpleWriter) writeCategory(sb *strings.Builder, cr model.CategoryResult) {
	writeRule(sb, "-")
	sb.WriteString(w.upper.String(cr.Category.String()))
	sb.WriteString("\n")
	writeRule(sb, "-")
	sb.WriteString("\n")

	shown := 0
	for _, res := range cr.Results {
		c := res.Result.Rating.Classification
		if w.failingOnly && c != model.ClassificationBad && c != model.ClassificationCritical {
			continue
		}
		shown++

		tag := fmt.Sprintf("%-10s", "["+w.upper.String(c.String())+"]")
		fmt.Fprintf(sb, "  %s %s\n", w.paint(c)(tag), res.Name)
		fmt.Fprintf(sb, "             %s\n", res.Result.Description)

		if !w.verbose {
			continue
		}
		for _, line := range detailLines(res.Result.Details) {
			fmt.Fprintf(sb, "               - %s\n", line)
		}
		if res.Result.Finding != "" {
			fmt.Fprintf(sb, "             Finding: %s\n", res.Result.Finding)
		}
	}
	if shown == 0 {
		sb.WriteString("  No results\n")
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	writeRule(sb, "=")
	sb.WriteString("Report generated by sitescore\n")
	writeRule(sb, "=")
}
