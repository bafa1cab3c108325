package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sitescore/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter

	title cases.Caser
	upper cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      cases.Title(language.English),
		upper:      cases.Upper(language.English),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.EvaluationReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := model.NewSummary(report)

	w.writeHeader(md, report)
	w.writeCounts(md, summary)
	w.writeFailing(md, report)
	for _, cr := range report.Categories {
		w.writeCategory(md, cr)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Sitescore Summary")
	md.PlainText("")
	md.PlainTextf("Target: `%s`", summary.Target)
	md.PlainText("")
	w.writeCounts(md, summary)

	return len(md.String()), md.Build()
}

// WriteComparison outputs the changes between two evaluations.
func (w *MarkdownWriter) WriteComparison(cmp *model.Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Evaluation Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Previous", "Current"},
		Rows: [][]string{
			{"Target", "`" + cmp.Target + "`", "`" + cmp.Target + "`"},
			{"Evaluation", cmp.Previous.ID, cmp.Current.ID},
			{"Evaluated", cmp.Previous.EvaluatedAt.Format(timeLayout), cmp.Current.EvaluatedAt.Format(timeLayout)},
			{"Critical", strconv.Itoa(cmp.Previous.Counts.Critical), strconv.Itoa(cmp.Current.Counts.Critical)},
			{"Bad", strconv.Itoa(cmp.Previous.Counts.Bad), strconv.Itoa(cmp.Current.Counts.Bad)},
			{"Neutral", strconv.Itoa(cmp.Previous.Counts.Neutral), strconv.Itoa(cmp.Current.Counts.Neutral)},
			{"Good", strconv.Itoa(cmp.Previous.Counts.Good), strconv.Itoa(cmp.Current.Counts.Good)},
		},
	})
	md.PlainText("")

	switch cmp.Direction {
	case model.DirectionImproved:
		md.Tipf("Overall the target improved: %d check(s) improved, %d worsened.",
			cmp.Count(model.ChangeImproved), cmp.Count(model.ChangeWorsened))
	case model.DirectionWorsened:
		md.Warningf("Overall the target worsened: %d check(s) worsened, %d improved.",
			cmp.Count(model.ChangeWorsened), cmp.Count(model.ChangeImproved))
	default:
		md.Note("No overall change in classification.")
	}
	md.PlainText("")

	md.H2("Changes")
	md.PlainText("")
	if len(cmp.Changes) == 0 {
		md.PlainTextf("No check changed its classification (%d unchanged).", cmp.Unchanged)
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(cmp.Changes))
	for _, ch := range cmp.Changes {
		rows = append(rows, []string{
			ch.Category.String(),
			"`" + ch.Name + "`",
			w.title.String(string(ch.Kind)),
			classificationOf(ch.Previous),
			classificationOf(ch.Current),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Check", "Change", "Previous", "Current"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

func classificationOf(r *model.Result) string {
	if r == nil {
		return "-"
	}
	return r.Rating.Classification.String()
}

// writeHeader writes the report header with evaluation information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.EvaluationReport) {
	md.H1("Sitescore Report")
	md.PlainText("")

	rows := [][]string{
		{"Target", "`" + report.Target + "`"},
		{"Evaluated", report.EvaluatedAt.Format(timeLayout)},
	}
	if !report.ScannedAt.IsZero() {
		rows = append(rows, []string{"Scanned", report.ScannedAt.Format(timeLayout)})
	}
	if report.Fingerprint != "" {
		rows = append(rows, []string{"Fingerprint", "`" + report.Fingerprint + "`"})
	}
	rows = append(rows, []string{"Status", w.statusText(report)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) statusText(report *model.EvaluationReport) string {
	if report.Error != "" {
		return "❌ Error - " + report.Error
	}
	return "✅ Complete"
}

var classificationIcons = map[model.Classification]string{
	model.ClassificationCritical: "🔴",
	model.ClassificationBad:      "🟠",
	model.ClassificationNeutral:  "⚪",
	model.ClassificationGood:     "🟢",
}

// writeCounts writes the classification table, pie chart and alert.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Summary")
	md.PlainText("")

	header := []string{"Category"}
	for i := len(model.Classifications) - 1; i >= 0; i-- {
		c := model.Classifications[i]
		header = append(header, classificationIcons[c]+" "+w.title.String(c.String()))
	}
	rows := make([][]string, 0, len(summary.Categories)+1)
	for _, cs := range summary.Categories {
		rows = append(rows, w.countsRow(w.upper.String(cs.Category.String()), cs.Counts))
	}
	rows = append(rows, w.countsRow("**Total**", summary.Counts))
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")

	if summary.Total() > 0 {
		w.writePieChart(md, summary.Counts)
	}
	w.writeAlert(md, summary.Counts)
}

func (w *MarkdownWriter) countsRow(label string, c model.Counts) []string {
	row := []string{label}
	for i := len(model.Classifications) - 1; i >= 0; i-- {
		row = append(row, strconv.Itoa(c.Of(model.Classifications[i])))
	}
	return row
}

// writePieChart writes a mermaid pie chart for the classification distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts model.Counts) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Result Classification Distribution"),
		piechart.WithShowData(true),
	)
	for i := len(model.Classifications) - 1; i >= 0; i-- {
		c := model.Classifications[i]
		if n := counts.Of(c); n > 0 {
			chart.LabelAndIntValue(w.title.String(c.String()), uint64(n)) //nolint:gosec // n is positive
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the worst classification.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, counts model.Counts) {
	switch {
	case counts.Critical > 0:
		md.Cautionf("%d critical result(s): baseline requirements such as HTTPS or TLS 1.2 are not met.",
			counts.Critical)
	case counts.Bad > 0:
		md.Warningf("%d result(s) deviate from best practice.", counts.Bad)
	case counts.Total() > 0:
		md.Tip("No bad or critical results.")
	default:
		md.Note("No check produced a result.")
	}
	md.PlainText("")
}

// writeFailing lists bad and critical results up front.
func (w *MarkdownWriter) writeFailing(md *markdown.Markdown, report *model.EvaluationReport) {
	failing := model.Failing(report)
	if len(failing) == 0 {
		return
	}

	md.H2("Needs Attention")
	md.PlainText("")
	items := make([]string, 0, len(failing))
	for _, f := range failing {
		items = append(items, classificationIcons[f.Result.Rating.Classification]+" **"+
			f.Category.String()+"/"+f.Name+"**: "+f.Result.Description)
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeCategory writes a table of the category's results with details.
func (w *MarkdownWriter) writeCategory(md *markdown.Markdown, cr model.CategoryResult) {
	md.H2(w.upper.String(cr.Category.String()))
	md.PlainText("")

	if len(cr.Results) == 0 {
		md.PlainText("No results.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(cr.Results))
	for i, res := range cr.Results {
		c := res.Result.Rating.Classification
		rows[i] = []string{
			"`" + res.Name + "`",
			classificationIcons[c] + " " + w.title.String(c.String()),
			escapeCell(res.Result.Description),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Check", "Classification", "Description"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, res := range cr.Results {
		lines := detailLines(res.Result.Details)
		if res.Result.Finding != "" {
			lines = append(lines, "Finding: "+truncateString(res.Result.Finding, 200))
		}
		if len(lines) > 0 {
			md.Details(res.Name, strings.Join(lines, "\n"))
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by sitescore*")
}

// escapeCell keeps pipe characters from splitting a table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
