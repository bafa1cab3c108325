package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nao1215/sitescore/internal/config"
	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
	"github.com/nao1215/sitescore/internal/target"
)

// ErrNoTarget is returned when neither the fact file nor the job names a target.
var ErrNoTarget = errors.New("fact file does not name a target")

// ErrNotLoaded is returned by steps that need facts when LoadStep has not run.
var ErrNotLoaded = errors.New("facts not loaded")

// LoadStep reads the fact file, normalizes its target and fingerprints
// the facts.
type LoadStep struct {
	logger *slog.Logger
}

// NewLoadStep creates a new fact loading step.
func NewLoadStep(logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{logger: logger}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load_facts"
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, job *Job) error {
	snap, err := facts.LoadFile(job.Input)
	if err != nil {
		return err
	}

	raw := job.Target
	if raw == "" {
		raw = snap.Target
	}
	if raw == "" {
		return fmt.Errorf("%s: %w", job.Input, ErrNoTarget)
	}
	normalized, err := target.Normalize(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", job.Input, err)
	}

	job.Snapshot = snap
	job.Report.Target = normalized
	job.Report.ScannedAt = snap.ScannedAt
	job.Report.Fingerprint = snap.Facts.Fingerprint()

	if extra := snap.Facts.Extra(); len(extra) > 0 {
		s.logger.Debug("ignoring unknown facts", "input", job.Input, "keys", extra)
	}
	s.logger.Debug("facts loaded",
		"target", normalized,
		"facts", snap.Facts.Len(),
		"fingerprint", job.Report.Fingerprint,
	)
	return nil
}

// SettingsStep resolves the per-target settings from the configuration file.
type SettingsStep struct {
	file *config.File
}

// NewSettingsStep creates a settings step. A nil file yields empty settings.
func NewSettingsStep(file *config.File) *SettingsStep {
	return &SettingsStep{file: file}
}

// Name returns the step name.
func (s *SettingsStep) Name() string {
	return "resolve_settings"
}

// Do executes the settings step.
func (s *SettingsStep) Do(_ context.Context, job *Job) error {
	job.Settings = s.file.TargetConfig(job.Report.Target)
	return nil
}

// EvaluateStep runs the check catalogue over the loaded facts.
type EvaluateStep struct {
	catalogues *Catalogues
	categories []model.Category
	logger     *slog.Logger
}

// EvaluateStepOption configures an EvaluateStep.
type EvaluateStepOption func(*EvaluateStep)

// WithCategories restricts the evaluation to the given categories,
// taking precedence over the per-target settings.
func WithCategories(categories []model.Category) EvaluateStepOption {
	return func(s *EvaluateStep) {
		s.categories = slices.Clone(categories)
	}
}

// WithCatalogues shares a catalogue cache between steps.
func WithCatalogues(c *Catalogues) EvaluateStepOption {
	return func(s *EvaluateStep) {
		s.catalogues = c
	}
}

// WithEvaluateLogger sets a custom logger for the evaluate step.
func WithEvaluateLogger(logger *slog.Logger) EvaluateStepOption {
	return func(s *EvaluateStep) {
		s.logger = logger
	}
}

// NewEvaluateStep creates a new evaluation step.
func NewEvaluateStep(opts ...EvaluateStepOption) *EvaluateStep {
	s := &EvaluateStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalogues == nil {
		s.catalogues = NewCatalogues()
	}
	return s
}

// Name returns the step name.
func (s *EvaluateStep) Name() string {
	return "evaluate"
}

// Do executes the evaluate step.
func (s *EvaluateStep) Do(ctx context.Context, job *Job) error {
	if job.Snapshot == nil {
		return ErrNotLoaded
	}

	categories := s.categories
	if len(categories) == 0 {
		parsed, err := config.ParseCategories(job.Settings.Categories)
		if err != nil {
			return err
		}
		categories = parsed
	}

	catalogue, err := s.catalogues.For(job.Settings.ExtraGDPRCountries)
	if err != nil {
		return err
	}

	results, err := catalogue.RunAll(ctx, job.Snapshot.Facts, categories...)
	if err != nil {
		return err
	}
	if len(job.Settings.Labels) > 0 {
		results = filterLabels(results, job.Settings.Labels)
	}

	job.Report.Categories = results
	s.logger.Debug("evaluation finished",
		"target", job.Report.Target,
		"categories", len(results),
		"results", job.Report.TotalResults(),
	)
	return nil
}

// filterLabels keeps the results of checks carrying one of the labels.
func filterLabels(results []model.CategoryResult, labels []string) []model.CategoryResult {
	out := make([]model.CategoryResult, len(results))
	for i, cr := range results {
		out[i] = model.CategoryResult{Category: cr.Category, Results: []model.CheckResult{}}
		for _, res := range cr.Results {
			if slices.ContainsFunc(res.Labels, func(l string) bool { return slices.Contains(labels, l) }) {
				out[i].Results = append(out[i].Results, res)
			}
		}
	}
	return out
}

// Saver stores evaluation reports. *database.HistoryDB implements it.
type Saver interface {
	Save(ctx context.Context, report *model.EvaluationReport) (int64, error)
}

// SaveStep stores the report in the history.
type SaveStep struct {
	saver  Saver
	logger *slog.Logger
}

// NewSaveStep creates a new save step.
func NewSaveStep(saver Saver, logger *slog.Logger) *SaveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveStep{saver: saver, logger: logger}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save_history"
}

// Do executes the save step. Reports of failed evaluations are not stored.
func (s *SaveStep) Do(ctx context.Context, job *Job) error {
	if job.Report.Error != "" {
		return nil
	}
	id, err := s.saver.Save(ctx, job.Report)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	job.HistoryID = id
	s.logger.Debug("report saved", "target", job.Report.Target, "id", id)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Categories restricts the evaluated categories for every target.
	Categories []model.Category

	// File holds the per-target settings. May be nil.
	File *config.File

	// Saver stores reports when set.
	Saver Saver

	// Catalogues is shared between pipelines when set.
	Catalogues *Catalogues
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineCategories restricts the evaluated categories.
func WithPipelineCategories(categories []model.Category) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Categories = categories
	}
}

// WithPipelineConfigFile sets the per-target settings.
func WithPipelineConfigFile(file *config.File) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.File = file
	}
}

// WithPipelineSaver stores every successful report.
func WithPipelineSaver(saver Saver) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Saver = saver
	}
}

// WithPipelineCatalogues shares a catalogue cache.
func WithPipelineCatalogues(catalogues *Catalogues) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Catalogues = catalogues
	}
}

// DefaultPipeline creates a pipeline with all default steps configured:
// load_facts, resolve_settings, evaluate and, when a Saver is given,
// save_history.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The variadic parameter accepts config options (WithPipelineCategories, etc).
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	cfg := &DefaultPipelineConfig{}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p := New(pipelineOpts...)
	p.AddSteps(
		NewLoadStep(p.logger),
		NewSettingsStep(cfg.File),
		NewEvaluateStep(
			WithCategories(cfg.Categories),
			WithCatalogues(cfg.Catalogues),
			WithEvaluateLogger(p.logger),
		),
	)
	if cfg.Saver != nil {
		p.AddStep(NewSaveStep(cfg.Saver, p.logger))
	}
	return p
}
