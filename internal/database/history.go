package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitescore/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "sitescore.db"

// ErrNoReport is returned when saving a report that is nil or has no target.
var ErrNoReport = errors.New("report has no target")

// HistoryDB stores evaluation reports for historical comparison.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the given directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the path of the database file.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT NOT NULL,
		target TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		evaluated_at TEXT NOT NULL,
		report_json TEXT NOT NULL,
		summary_json TEXT,
		UNIQUE(target, fingerprint)
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_target ON evaluations(target);
	CREATE INDEX IF NOT EXISTS idx_evaluations_evaluated_at ON evaluations(evaluated_at);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Save stores an evaluation report.
// A report whose target and fingerprint are already stored replaces the
// stored report and keeps its row ID.
func (h *HistoryDB) Save(ctx context.Context, report *model.EvaluationReport) (int64, error) {
	if report == nil || report.Target == "" {
		return 0, ErrNoReport
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}
	summaryJSON, err := json.Marshal(model.NewSummary(report).Counts)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	INSERT INTO evaluations (report_id, target, fingerprint, evaluated_at, report_json, summary_json)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(target, fingerprint) DO UPDATE SET
		report_id = excluded.report_id,
		evaluated_at = excluded.evaluated_at,
		report_json = excluded.report_json,
		summary_json = excluded.summary_json
	RETURNING id
	`

	var id int64
	err = h.db.QueryRowContext(ctx, query,
		report.ID,
		report.Target,
		report.Fingerprint,
		formatTimestamp(report.EvaluatedAt),
		string(reportJSON),
		string(summaryJSON),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save evaluation: %w", err)
	}

	return id, nil
}

// Latest retrieves the most recent evaluation of a target.
// It returns nil without error when the target has no history.
func (h *HistoryDB) Latest(ctx context.Context, target string) (*model.EvaluationReport, error) {
	query := `
	SELECT report_json FROM evaluations
	WHERE target = ?
	ORDER BY evaluated_at DESC, id DESC
	LIMIT 1
	`
	return h.queryReport(ctx, query, target)
}

// GetByID retrieves an evaluation by its database ID.
// It returns nil without error when no such row exists.
func (h *HistoryDB) GetByID(ctx context.Context, id int64) (*model.EvaluationReport, error) {
	return h.queryReport(ctx, `SELECT report_json FROM evaluations WHERE id = ?`, id)
}

func (h *HistoryDB) queryReport(ctx context.Context, query string, args ...any) (*model.EvaluationReport, error) {
	var reportJSON string
	err := h.db.QueryRowContext(ctx, query, args...).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	var report model.EvaluationReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// ListTargets returns every target with at least one stored evaluation.
func (h *HistoryDB) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT DISTINCT target FROM evaluations ORDER BY target`)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

// History retrieves all evaluations of a target, newest first.
// Rows that cannot be decoded are skipped.
func (h *HistoryDB) History(ctx context.Context, target string) ([]*model.EvaluationReport, error) {
	query := `
	SELECT report_json FROM evaluations
	WHERE target = ?
	ORDER BY evaluated_at DESC, id DESC
	`

	rows, err := h.db.QueryContext(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var reports []*model.EvaluationReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.EvaluationReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}

// EvaluationMetadata summarizes a stored evaluation without its results.
type EvaluationMetadata struct {
	// ID is the database row ID, used by GetByID.
	ID int64

	// ReportID is the ID of the EvaluationReport.
	ReportID string

	Target      string
	Fingerprint string
	EvaluatedAt time.Time

	// Counts are the classification counts of the report.
	Counts model.Counts
}

// Age returns how long ago the evaluation happened, e.g. "3 days ago".
func (m EvaluationMetadata) Age() string {
	if m.EvaluatedAt.IsZero() {
		return "unknown"
	}
	return humanize.Time(m.EvaluatedAt)
}

// HistoryWithMetadata retrieves the metadata of all evaluations of a target,
// newest first.
func (h *HistoryDB) HistoryWithMetadata(ctx context.Context, target string) ([]EvaluationMetadata, error) {
	query := `
	SELECT id, report_id, target, fingerprint, evaluated_at, summary_json
	FROM evaluations
	WHERE target = ?
	ORDER BY evaluated_at DESC, id DESC
	`

	rows, err := h.db.QueryContext(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []EvaluationMetadata
	for rows.Next() {
		var meta EvaluationMetadata
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.ReportID, &meta.Target, &meta.Fingerprint, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.EvaluatedAt = parseTimestamp(timestamp)
		if summaryJSON.Valid && summaryJSON.String != "" {
			// A broken summary leaves the counts at zero.
			_ = json.Unmarshal([]byte(summaryJSON.String), &meta.Counts) //nolint:errcheck
		}

		results = append(results, meta)
	}
	return results, rows.Err()
}

// timestampLayout sorts lexically in chronological order.
const timestampLayout = "2006-01-02 15:04:05.000000000"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timestampLayout)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, it returns the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
