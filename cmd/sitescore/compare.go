package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nao1215/sitescore/internal/config"
	"github.com/nao1215/sitescore/internal/database"
	"github.com/nao1215/sitescore/internal/model"
	"github.com/nao1215/sitescore/internal/report"
	"github.com/nao1215/sitescore/internal/target"
)

// NewCompareCmd creates the compare command.
// It compares evaluations stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [target]",
		Short: "Compare evaluations of a site with its history",
		Long: `Compare shows which checks changed their classification between two
evaluations of the same site.

By default the latest evaluation is compared with the one before it.
Evaluations of identical facts are stored only once, so two entries
always differ in their facts.

Examples:
  # Compare the latest two evaluations
  sitescore compare https://example.com/

  # List the evaluation history of a site
  sitescore compare --list example.com

  # Compare the latest evaluation with a specific one
  sitescore compare --with-id 5 example.com

  # Compare with the first evaluation since a date
  sitescore compare --since 2026-01-01 example.com

  # List all evaluated sites
  sitescore compare --list-targets`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List the evaluation history of the target")
	cmd.Flags().BoolP("list-targets", "L", false,
		"List all targets in the history database")
	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare with a specific evaluation by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first evaluation on or after this date (format: YYYY-MM-DD)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data directory)")

	return cmd
}

// compareOptions selects what the compare command does.
type compareOptions struct {
	target      string
	list        bool
	listTargets bool
	withID      int64
	since       string
	json        bool
	markdown    bool
	noColor     bool
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
	var opts compareOptions
	var err error
	if opts.listTargets, err = cmd.Flags().GetBool("list-targets"); err != nil {
		return err
	}

	// Validate arguments before opening the database.
	if !opts.listTargets {
		if len(args) == 0 {
			return errors.New("target is required (use --list-targets to see evaluated sites)")
		}
		if opts.target, err = target.Normalize(args[0]); err != nil {
			return fmt.Errorf("invalid target: %w", err)
		}
	}

	if opts.list, err = cmd.Flags().GetBool("list"); err != nil {
		return err
	}
	if opts.withID, err = cmd.Flags().GetInt64("with-id"); err != nil {
		return err
	}
	if opts.since, err = cmd.Flags().GetString("since"); err != nil {
		return err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if opts.json && opts.markdown {
		return config.ErrConflictingReportFormats
	}
	if opts.noColor, err = cmd.Flags().GetBool("no-color"); err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history database (evaluate a site first): %w", err)
	}
	defer db.Close()

	return runCompare(cmd.Context(), db, opts, cmd.OutOrStdout())
}

// runCompare dispatches on the selected mode.
func runCompare(ctx context.Context, db *database.HistoryDB, opts compareOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.noColor {
		color.NoColor = true
	}

	switch {
	case opts.listTargets:
		return listTargets(ctx, db, out)
	case opts.list:
		return listHistory(ctx, db, opts.target, out)
	}

	cmp, err := loadComparison(ctx, db, opts)
	if err != nil {
		return err
	}

	switch {
	case opts.json:
		_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).WriteComparison(cmp)
	case opts.markdown:
		_, err = report.NewMarkdownWriter(out).WriteComparison(cmp)
	default:
		err = writeComparisonText(out, cmp)
	}
	return err
}

// listTargets prints every target that has evaluations.
func listTargets(ctx context.Context, db *database.HistoryDB, out io.Writer) error {
	targets, err := db.ListTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list targets: %w", err)
	}

	if len(targets) == 0 {
		fmt.Fprintln(out, "No evaluated targets found in the database.")
		fmt.Fprintln(out, "\nUse 'sitescore evaluate <fact-file>' to evaluate a site.")
		return nil
	}

	fmt.Fprintf(out, "Evaluated targets (%d):\n\n", len(targets))
	for _, t := range targets {
		fmt.Fprintf(out, "  • %s\n", t)
	}
	fmt.Fprintln(out, "\nUse 'sitescore compare --list <target>' to see the history of a target.")
	return nil
}

// listHistory prints the stored evaluations of a target, newest first.
func listHistory(ctx context.Context, db *database.HistoryDB, site string, out io.Writer) error {
	history, err := db.HistoryWithMetadata(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(history) == 0 {
		fmt.Fprintf(out, "No evaluations found for %s\n", site)
		return nil
	}

	fmt.Fprintf(out, "Evaluation history for %s (%d evaluations):\n\n", site, len(history))

	table := tablewriter.NewWriter(out)
	table.Header([]string{"ID", "Evaluated", "Age", "Fingerprint", "Summary"})
	rows := make([][]string, 0, len(history))
	for _, meta := range history {
		rows = append(rows, []string{
			strconv.FormatInt(meta.ID, 10),
			meta.EvaluatedAt.Local().Format("2006-01-02 15:04:05"),
			meta.Age(),
			shortFingerprint(meta.Fingerprint),
			formatCounts(meta.Counts),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nUse 'sitescore compare <target>' to compare the latest two evaluations.")
	fmt.Fprintln(out, "Use 'sitescore compare --with-id <id> <target>' to compare with a specific one.")
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

// formatCounts condenses counts, most severe first, e.g. "C:1 B:2 N:0 G:5".
func formatCounts(c model.Counts) string {
	if c.Total() == 0 {
		return "No results"
	}
	return fmt.Sprintf("C:%d B:%d N:%d G:%d", c.Critical, c.Bad, c.Neutral, c.Good)
}

// loadComparison picks the two evaluations to compare.
// The latest evaluation is always the current one.
func loadComparison(ctx context.Context, db *database.HistoryDB, opts compareOptions) (*model.Comparison, error) {
	reports, err := db.History(ctx, opts.target)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("no evaluations found for %s", opts.target)
	}
	if len(reports) < 2 && opts.withID == 0 && opts.since == "" {
		return nil, fmt.Errorf("at least 2 evaluations are required for comparison (found %d)", len(reports))
	}

	current := reports[0]
	var previous *model.EvaluationReport

	switch {
	case opts.withID > 0:
		previous, err = db.GetByID(ctx, opts.withID)
		if err != nil {
			return nil, fmt.Errorf("failed to get evaluation %d: %w", opts.withID, err)
		}
		if previous == nil {
			return nil, fmt.Errorf("evaluation with ID %d not found", opts.withID)
		}
		if previous.Target != opts.target {
			return nil, fmt.Errorf("evaluation %d belongs to %s, not %s", opts.withID, previous.Target, opts.target)
		}

	case opts.since != "":
		since, err := time.ParseInLocation("2006-01-02", opts.since, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
		// Newest first: walk backwards to find the oldest match.
		for i := len(reports) - 1; i >= 0; i-- {
			if !reports[i].EvaluatedAt.Before(since) {
				previous = reports[i]
				break
			}
		}
		if previous == nil {
			return nil, fmt.Errorf("no evaluations found since %s", opts.since)
		}
		if previous == current {
			return nil, fmt.Errorf("only one evaluation found since %s; at least 2 are required", opts.since)
		}

	default:
		previous = reports[1]
	}

	return model.Compare(previous, current), nil
}

// writeComparisonText renders a comparison as a colored table.
func writeComparisonText(out io.Writer, cmp *model.Comparison) error {
	fmt.Fprintf(out, "Comparison for %s\n\n", cmp.Target)
	fmt.Fprintf(out, "  Previous: #%s  %s  %s\n", shortID(cmp.Previous.ID),
		cmp.Previous.EvaluatedAt.Local().Format("2006-01-02 15:04:05"), formatCounts(cmp.Previous.Counts))
	fmt.Fprintf(out, "  Current:  #%s  %s  %s\n\n", shortID(cmp.Current.ID),
		cmp.Current.EvaluatedAt.Local().Format("2006-01-02 15:04:05"), formatCounts(cmp.Current.Counts))

	if len(cmp.Changes) == 0 {
		fmt.Fprintf(out, "No check changed its classification (%d unchanged).\n", cmp.Unchanged)
		return nil
	}

	kindColors := map[model.ChangeKind]func(a ...any) string{
		model.ChangeImproved: color.New(color.FgGreen).SprintFunc(),
		model.ChangeWorsened: color.New(color.FgRed).SprintFunc(),
		model.ChangeNew:      color.New(color.FgYellow).SprintFunc(),
		model.ChangeRemoved:  color.New(color.FgCyan).SprintFunc(),
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Category", "Check", "Change", "Previous", "Current"})
	rows := make([][]string, 0, len(cmp.Changes))
	for _, ch := range cmp.Changes {
		rows = append(rows, []string{
			ch.Category.String(),
			ch.Name,
			kindColors[ch.Kind](string(ch.Kind)),
			classificationName(ch.Previous),
			classificationName(ch.Current),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nOverall: %s (%d improved, %d worsened, %d new, %d removed, %d unchanged)\n",
		cmp.Direction,
		cmp.Count(model.ChangeImproved),
		cmp.Count(model.ChangeWorsened),
		cmp.Count(model.ChangeNew),
		cmp.Count(model.ChangeRemoved),
		cmp.Unchanged,
	)
	return nil
}

func classificationName(r *model.Result) string {
	if r == nil {
		return "-"
	}
	return strings.ToUpper(r.Rating.Classification.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
