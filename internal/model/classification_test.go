package model

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestClassificationString verifies the names used in reports and JSON.
func TestClassificationString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		c    Classification
		want string
	}{
		{ClassificationGood, "good"},
		{ClassificationNeutral, "neutral"},
		{ClassificationBad, "bad"},
		{ClassificationCritical, "critical"},
		{Classification(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.c.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestClassificationOrdering verifies that constants grow with severity.
func TestClassificationOrdering(t *testing.T) {
	t.Parallel()

	for i := 1; i < len(Classifications); i++ {
		if Classifications[i-1] >= Classifications[i] {
			t.Errorf("%s should be less severe than %s", Classifications[i-1], Classifications[i])
		}
	}
}

// TestParseClassification tests case-insensitive parsing and the error path.
func TestParseClassification(t *testing.T) {
	t.Parallel()

	t.Run("parses upper case names", func(t *testing.T) {
		t.Parallel()
		got, err := ParseClassification("CRITICAL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != ClassificationCritical {
			t.Errorf("got %v, want critical", got)
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		t.Parallel()
		_, err := ParseClassification("terrible")
		if !errors.Is(err, ErrUnknownClassification) {
			t.Errorf("expected ErrUnknownClassification, got %v", err)
		}
	})
}

// TestClassificationJSON verifies that classifications serialize as names.
func TestClassificationJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewRating(ClassificationBad))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"classification":"bad","devaluates_group":false,"influences_ranking":true}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	if _, err := json.Marshal(Classification(9)); err == nil {
		t.Error("expected an error for an out of range classification")
	}
}

// TestNewRating verifies the default flags and the options.
func TestNewRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		opts           []RatingOption
		wantDevaluates bool
		wantRanking    bool
	}{
		{name: "defaults", wantDevaluates: false, wantRanking: true},
		{name: "devaluates group", opts: []RatingOption{DevaluatesGroup()}, wantDevaluates: true, wantRanking: true},
		{name: "unranked", opts: []RatingOption{Unranked()}, wantDevaluates: false, wantRanking: false},
		{name: "both", opts: []RatingOption{DevaluatesGroup(), Unranked()}, wantDevaluates: true, wantRanking: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewRating(ClassificationNeutral, tt.opts...)
			if r.DevaluatesGroup != tt.wantDevaluates {
				t.Errorf("DevaluatesGroup = %v, want %v", r.DevaluatesGroup, tt.wantDevaluates)
			}
			if r.InfluencesRanking != tt.wantRanking {
				t.Errorf("InfluencesRanking = %v, want %v", r.InfluencesRanking, tt.wantRanking)
			}
		})
	}
}
