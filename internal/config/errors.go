package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and can be checked
// with errors.Is().
var (
	// ErrNoInput is returned when no fact file is specified.
	ErrNoInput = errors.New("no input specified: provide one or more fact files")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNoDBDir is returned when history is enabled without a database directory.
	ErrNoDBDir = errors.New("history is enabled but no database directory is set")

	// ErrUnknownCategory is returned for category names outside the catalogue.
	ErrUnknownCategory = errors.New("unknown category")
)
