package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestResultDetailsNilVersusEmpty verifies that "no details" and
// "an empty details list" stay distinguishable in JSON.
func TestResultDetailsNilVersusEmpty(t *testing.T) {
	t.Parallel()

	none := NewResult("no details", ClassificationGood)
	empty := NewResult("empty details", ClassificationGood).WithDetails(SingleColumn(nil))

	noneJSON, err := json.Marshal(none)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	emptyJSON, err := json.Marshal(empty)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if !strings.Contains(string(noneJSON), `"details_list":null`) {
		t.Errorf("expected null details, got %s", noneJSON)
	}
	if !strings.Contains(string(emptyJSON), `"details_list":[]`) {
		t.Errorf("expected empty details, got %s", emptyJSON)
	}
	if none.Equal(empty) {
		t.Error("nil and empty details should not be equal")
	}
}

// TestResultClone verifies that a clone shares no detail storage with the original.
func TestResultClone(t *testing.T) {
	t.Parallel()

	orig := NewResult("two rows", ClassificationBad).WithDetails(SingleColumn([]string{"a.example", "b.example"}))
	clone := orig.Clone()

	if !orig.Equal(clone) {
		t.Fatal("clone should equal the original")
	}

	clone.Details[0][0] = "changed"
	if orig.Details[0][0] != "a.example" {
		t.Error("modifying the clone changed the original")
	}
}

// TestSingleColumn verifies the row shape used by list-based checks.
func TestSingleColumn(t *testing.T) {
	t.Parallel()

	rows := SingleColumn([]string{"x", "y"})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != 1 {
			t.Errorf("row %d has %d columns, want 1", i, len(row))
		}
	}
}
