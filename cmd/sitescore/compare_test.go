package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nao1215/sitescore/internal/database"
	"github.com/nao1215/sitescore/internal/model"
)

const exampleTarget = "https://example.com/"

// seedHistory evaluates example.com with servers in the United States and
// then in Germany, and returns the opened history database.
func seedHistory(t *testing.T) *database.HistoryDB {
	t.Helper()

	dir := t.TempDir()
	dbDir := t.TempDir()
	for i, facts := range []string{factsUS, factsDE} {
		cfg := testConfig(t, writeFile(t, dir, "site"+string(rune('0'+i))+".json", facts))
		cfg.DBDir = dbDir
		var stdout, stderr bytes.Buffer
		if err := runEvaluate(context.Background(), cfg, evaluateOptions{}, &stdout, &stderr, quietLogger); err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestRunCompare tests comparing the latest two evaluations.
func TestRunCompare(t *testing.T) {
	t.Parallel()

	db := seedHistory(t)

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		opts := compareOptions{target: exampleTarget, noColor: true}
		if err := runCompare(context.Background(), db, opts, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.String()
		for _, want := range []string{"Comparison for " + exampleTarget, "webserver_locations", "BAD", "GOOD", "Overall: improved"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected %q in output:\n%s", want, got)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		opts := compareOptions{target: exampleTarget, json: true}
		if err := runCompare(context.Background(), db, opts, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var cmp model.Comparison
		if err := json.Unmarshal(out.Bytes(), &cmp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if cmp.Direction != model.DirectionImproved {
			t.Errorf("expected improved, got %s", cmp.Direction)
		}
		if cmp.Count(model.ChangeImproved) != 1 || cmp.Changes[0].Name != "webserver_locations" {
			t.Errorf("unexpected changes %+v", cmp.Changes)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		opts := compareOptions{target: exampleTarget, markdown: true}
		if err := runCompare(context.Background(), db, opts, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "# Evaluation Comparison") {
			t.Errorf("unexpected markdown:\n%s", out.String())
		}
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		opts := compareOptions{target: exampleTarget, list: true}
		if err := runCompare(context.Background(), db, opts, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "(2 evaluations)") {
			t.Errorf("unexpected history:\n%s", out.String())
		}
	})

	t.Run("list targets", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		if err := runCompare(context.Background(), db, compareOptions{listTargets: true}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Evaluated targets (1)") || !strings.Contains(out.String(), exampleTarget) {
			t.Errorf("unexpected targets:\n%s", out.String())
		}
	})

	t.Run("with id", func(t *testing.T) {
		t.Parallel()

		history, err := db.HistoryWithMetadata(context.Background(), exampleTarget)
		if err != nil || len(history) != 2 {
			t.Fatalf("expected two evaluations, got %d (%v)", len(history), err)
		}
		var out bytes.Buffer
		opts := compareOptions{target: exampleTarget, withID: history[1].ID, noColor: true}
		if err := runCompare(context.Background(), db, opts, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Overall: improved") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})

	t.Run("since", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		opts := compareOptions{target: exampleTarget, since: "2000-01-01", noColor: true}
		if err := runCompare(context.Background(), db, opts, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Overall: improved") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})
}

// TestRunCompareErrors tests comparisons that cannot be made.
func TestRunCompareErrors(t *testing.T) {
	t.Parallel()

	db := seedHistory(t)

	tests := []struct {
		name string
		opts compareOptions
		want string
	}{
		{"unknown target", compareOptions{target: "https://unknown.example/"}, "no evaluations found"},
		{"missing id", compareOptions{target: exampleTarget, withID: 999}, "not found"},
		{"bad date", compareOptions{target: exampleTarget, since: "01/02/2026"}, "invalid date format"},
		{"future date", compareOptions{target: exampleTarget, since: "2999-01-01"}, "no evaluations found since"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := runCompare(context.Background(), db, tt.opts, &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

// TestCompareCommandRequiresTarget tests argument validation.
func TestCompareCommandRequiresTarget(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"compare", "--db-dir", t.TempDir()})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "target is required") {
		t.Errorf("expected missing target error, got %v", err)
	}
}

// TestFormatCounts tests the condensed count format.
func TestFormatCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		counts model.Counts
		want   string
	}{
		{"empty", model.Counts{}, "No results"},
		{"mixed", model.Counts{Good: 5, Neutral: 0, Bad: 2, Critical: 1}, "C:1 B:2 N:0 G:5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatCounts(tt.counts); got != tt.want {
				t.Errorf("formatCounts() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestShortFingerprint tests fingerprint shortening.
func TestShortFingerprint(t *testing.T) {
	t.Parallel()

	if got := shortFingerprint("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("got %q", got)
	}
	if got := shortFingerprint("abc"); got != "abc" {
		t.Errorf("got %q", got)
	}
}
