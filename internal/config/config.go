package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/sitescore/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sitescore"

	// DefaultTimeout bounds the evaluation of a single fact file.
	// Evaluation is CPU bound and fast; the timeout only guards against
	// unexpectedly large inputs.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize is the number of fact files evaluated concurrently.
	DefaultBatchSize = 10
)

// Config holds all configuration options for sitescore.
// It is populated from CLI flags and passed through the application
// via dependency injection rather than global state.
type Config struct {
	// Inputs are the fact files to evaluate.
	Inputs []string

	// Categories restricts the evaluation to the given categories.
	// Empty means all categories in catalogue order.
	Categories []model.Category

	// Timeout is the deadline for evaluating one fact file.
	Timeout time.Duration

	// BatchSize is the number of fact files evaluated concurrently.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON writes log records as JSON lines instead of key=value text.
	LogJSON bool

	// RedactKeys are additional log attribute keys whose values are masked.
	RedactKeys []string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitescore in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// TargetConfigs holds the per-target overrides loaded from the config file.
	TargetConfigs *File

	// JSONReport selects the JSON renderer. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects the Markdown renderer. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// NoColor disables colored text output.
	NoColor bool

	// DBDir is the directory of the SQLite history database.
	// Defaults to the XDG data directory (~/.local/share/sitescore on Linux).
	DBDir string

	// SaveToDB indicates whether evaluation reports are stored in the history.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:   DefaultTimeout,
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
		SaveToDB:  true,
	}
}

// XDGDataDir returns the XDG data directory for sitescore.
// On Linux: ~/.local/share/sitescore
// On macOS: ~/Library/Application Support/sitescore
// On Windows: %LOCALAPPDATA%\sitescore
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitescore.
// It is the last place FindConfigFile looks in.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ParseCategories converts category names into categories.
// Duplicates are dropped and the catalogue order is restored.
func ParseCategories(names []string) ([]model.Category, error) {
	seen := make(map[model.Category]bool, len(names))
	for _, name := range names {
		c, err := model.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		seen[c] = true
	}

	var cats []model.Category
	for _, c := range model.Categories() {
		if seen[c] {
			cats = append(cats, c)
		}
	}
	return cats, nil
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoDBDir
	}

	return nil
}
