package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/sitescore/internal/config"
	"github.com/nao1215/sitescore/internal/database"
	sitelog "github.com/nao1215/sitescore/internal/log"
	"github.com/nao1215/sitescore/internal/model"
	"github.com/nao1215/sitescore/internal/pipeline"
	"github.com/nao1215/sitescore/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewEvaluateCmd creates the evaluate command.
func NewEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "evaluate <fact-file>...",
		Aliases: []string{"eval"},
		Short:   "Evaluate scan facts of one or more sites",
		Long: `Evaluate runs the check catalogue over fact files produced by the scanners.

A fact file is a JSON or YAML document holding the target URL, the scan
time and the collected facts:

  {
    "target": "https://example.com/",
    "scanned_at": "2026-01-02T03:04:05Z",
    "facts": {
      "third_parties_count": 2,
      "third_parties": ["cdn.example", "fonts.example"],
      "a_locations": ["Germany"]
    }
  }

Each report is stored in the local history (see 'sitescore compare')
unless --no-save is given.

Examples:
  # Evaluate one site
  sitescore evaluate example.json

  # Evaluate many sites, four at a time, privacy and ssl only
  sitescore evaluate -b 4 -C privacy,ssl facts/*.json

  # Write a Markdown report to a file
  sitescore evaluate -m -o reports/example.md example.json

Configuration file (.sitescore) example:
  defaults:
    categories: [privacy, security, ssl, mx]
  targets:
    https://example.ch/:
      extraGDPRCountries: [Switzerland]`,
		Args: cobra.ArbitraryArgs,
		RunE: runEvaluateCmd,
	}

	addEvaluationFlags(cmd)
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of fact files evaluated concurrently")
	cmd.Flags().StringP("output", "o", "",
		"Write reports to the specified file path (creates directories if needed)")
	cmd.Flags().Bool("summary", false, "Print only the classification counts")
	cmd.Flags().String("target", "",
		"Evaluate the facts as if they described this target")

	return cmd
}

// addEvaluationFlags registers the flags shared by evaluate and watch.
func addEvaluationFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("category", "C", nil,
		"Evaluate only these categories (privacy, security, ssl, mx)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for evaluating one fact file")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitescore in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().Bool("no-save", false, "Do not store reports in the history database")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data directory)")
}

// runEvaluateCmd executes the evaluate command.
func runEvaluateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	opts := evaluateOptions{}
	if opts.summaryOnly, err = cmd.Flags().GetBool("summary"); err != nil {
		return err
	}
	if opts.target, err = cmd.Flags().GetString("target"); err != nil {
		return err
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runEvaluate(ctx, cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// applyLogFlags copies the root logging flags into cfg. Commands built
// without the root command keep the defaults.
func applyLogFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Root().PersistentFlags()
	if v, err := flags.GetBool("log-json"); err == nil {
		cfg.LogJSON = v
	}
	if v, err := flags.GetStringSlice("redact"); err == nil {
		cfg.RedactKeys = v
	}
}

// buildConfig creates a Config from the flags shared by evaluate and watch.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Inputs = args
	cfg.Verbose = getVerboseFlag(cmd)
	applyLogFlags(cmd, cfg)

	names, err := cmd.Flags().GetStringSlice("category")
	if err != nil {
		return nil, err
	}
	if cfg.Categories, err = config.ParseCategories(names); err != nil {
		return nil, err
	}

	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; a missing default one
	// means no per-target settings.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.TargetConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.TargetConfigs = &config.File{}
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.NoColor, err = cmd.Flags().GetBool("no-color"); err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	return cfg, nil
}

// setupLogger creates a structured logger that masks secrets.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return sitelog.New(w, sitelog.Options{
		Verbose:    cfg.Verbose,
		JSON:       cfg.LogJSON,
		RedactKeys: cfg.RedactKeys,
	})
}

// evaluateOptions are the evaluate-only settings not kept in config.Config.
type evaluateOptions struct {
	summaryOnly bool
	target      string
}

// evaluator builds pipelines and renders their reports.
type evaluator struct {
	cfg        *config.Config
	db         *database.HistoryDB
	catalogues *pipeline.Catalogues
	logger     *slog.Logger
}

// newEvaluator opens the history database when saving is enabled.
// The caller must call close.
func newEvaluator(cfg *config.Config, logger *slog.Logger) (*evaluator, error) {
	e := &evaluator{
		cfg:        cfg,
		catalogues: pipeline.NewCatalogues(),
		logger:     logger,
	}
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		e.db = db
		logger.Debug("database opened", "path", db.Path())
	}
	return e, nil
}

func (e *evaluator) close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// newPipeline creates the pipeline for one fact file.
func (e *evaluator) newPipeline() *pipeline.Pipeline {
	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineCategories(e.cfg.Categories),
		pipeline.WithPipelineConfigFile(e.cfg.TargetConfigs),
		pipeline.WithPipelineCatalogues(e.catalogues),
	}
	if e.db != nil {
		configOpts = append(configOpts, pipeline.WithPipelineSaver(e.db))
	}
	return pipeline.DefaultPipeline(
		[]pipeline.Option{
			pipeline.WithLogger(e.logger),
			pipeline.WithTimeout(e.cfg.Timeout),
		},
		configOpts...,
	)
}

// newReportWriter selects the renderer requested by the configuration.
func newReportWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithVersion(getVersion()), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w,
			report.WithColor(!cfg.NoColor && isTerminal(w)),
			report.WithVerbose(cfg.Verbose),
		)
	}
}

// isTerminal reports whether w is a terminal. Color codes are only
// written to terminals, never to files or pipes.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// openOutput opens the report destination: the report file if set,
// otherwise stdout. The returned function closes it.
func openOutput(cfg *config.Config, stdout io.Writer) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return stdout, func() error { return nil }, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports reveal weaknesses of the evaluated sites, so only the owner may read them.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// runEvaluate evaluates all inputs and renders one report per input.
// It fails when at least one input could not be evaluated.
func runEvaluate(ctx context.Context, cfg *config.Config, opts evaluateOptions, stdout, stderr io.Writer, logger *slog.Logger) (err error) {
	e, err := newEvaluator(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	out, closeOut, err := openOutput(cfg, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	writer := newReportWriter(cfg, out)

	logger.Info("starting evaluation",
		"inputs", len(cfg.Inputs),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)
	startTime := time.Now()

	batchOpts := []pipeline.BatchOption{
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	}
	if opts.target != "" {
		batchOpts = append(batchOpts, pipeline.WithTargetOverride(opts.target))
	}
	bp := pipeline.NewBatchProcessor(e.newPipeline, batchOpts...)

	// Reports are rendered once the batch is done, in input order.
	var mu sync.Mutex
	done := 0
	jobs := make([]*pipeline.Job, len(cfg.Inputs))
	err = bp.ProcessBatchWithCallback(ctx, cfg.Inputs, func(job *pipeline.Job, index int) {
		mu.Lock()
		defer mu.Unlock()

		jobs[index] = job
		done++
		if job.Report.Error != "" {
			fmt.Fprintf(stderr, "[%d/%d] %s: %s\n", done, len(cfg.Inputs), job.Input, job.Report.Error)
			return
		}
		if len(cfg.Inputs) > 1 {
			fmt.Fprintf(stderr, "[%d/%d] evaluated %s\n", done, len(cfg.Inputs), job.Report.Target)
		}
	})
	if err != nil {
		return err
	}

	failed := 0
	reports := make([]*model.EvaluationReport, 0, len(jobs))
	for _, job := range jobs {
		if job == nil || job.Report.Error != "" {
			failed++
			continue
		}
		reports = append(reports, job.Report)
	}
	if werr := writeReports(writer, reports, len(cfg.Inputs) > 1, opts.summaryOnly); werr != nil {
		return fmt.Errorf("failed to write reports: %w", werr)
	}

	logger.Info("evaluation finished", "elapsed", time.Since(startTime).Round(time.Millisecond))
	if failed > 0 {
		return fmt.Errorf("%d of %d evaluations failed", failed, len(cfg.Inputs))
	}
	return nil
}

// writeReports renders reports in order. A JSON writer given a batch
// emits one array instead of a stream of documents.
func writeReports(w report.Writer, reports []*model.EvaluationReport, batch, summaryOnly bool) error {
	if jw, ok := w.(*report.JSONWriter); ok && batch {
		if summaryOnly {
			summaries := make([]*model.Summary, len(reports))
			for i, r := range reports {
				summaries[i] = model.NewSummary(r)
			}
			_, err := jw.WriteSummaries(summaries)
			return err
		}
		_, err := jw.WriteReports(reports)
		return err
	}
	for _, r := range reports {
		if err := writeReport(w, r, summaryOnly); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(w report.Writer, r *model.EvaluationReport, summaryOnly bool) error {
	if summaryOnly {
		_, err := w.WriteSummary(model.NewSummary(r))
		return err
	}
	_, err := w.Write(r)
	return err
}
