package check

import (
	"testing"

	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

// checkCase is one row of the per-check tables.
type checkCase struct {
	name      string
	check     string
	facts     map[facts.Key]any
	abstain   bool
	want      model.Classification
	wantText  string
	wantFlags []model.RatingOption
}

func runCheckCases(t *testing.T, cat model.Category, cases []checkCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, ok := evaluate(t, cat, tc.check, tc.facts)
			if tc.abstain {
				if ok {
					t.Fatalf("expected %s to abstain, got %+v", tc.check, res)
				}
				return
			}
			if !ok {
				t.Fatalf("%s abstained", tc.check)
			}
			if res.Rating.Classification != tc.want {
				t.Errorf("classification = %s, want %s", res.Rating.Classification, tc.want)
			}
			if tc.wantText != "" && res.Description != tc.wantText {
				t.Errorf("description = %q, want %q", res.Description, tc.wantText)
			}
			if wantRating := model.NewRating(tc.want, tc.wantFlags...); res.Rating != wantRating {
				t.Errorf("rating = %+v, want %+v", res.Rating, wantRating)
			}
		})
	}
}
