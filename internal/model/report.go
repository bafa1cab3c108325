package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckResult is a Result labelled with the check that produced it.
type CheckResult struct {
	// Name is the check name, unique within its category.
	Name string `json:"name"`

	// Title is the optional short title of the check.
	Title string `json:"title,omitempty"`

	// Labels are informational reliability labels such as "reliable".
	Labels []string `json:"labels,omitempty"`

	// Result is the verdict.
	Result Result `json:"result"`
}

// CategoryResult holds the ordered results of one category.
// Checks that abstained are absent from Results.
type CategoryResult struct {
	Category Category      `json:"category"`
	Results  []CheckResult `json:"results"`
}

// Lookup returns the result of the named check, if it produced one.
func (c CategoryResult) Lookup(name string) (CheckResult, bool) {
	for _, r := range c.Results {
		if r.Name == name {
			return r, true
		}
	}
	return CheckResult{}, false
}

// EvaluationReport is the outcome of evaluating one target's facts.
type EvaluationReport struct {
	// ID uniquely identifies this evaluation.
	ID string `json:"id"`

	// Target is the normalized URL of the evaluated site.
	Target string `json:"target"`

	// Fingerprint is a digest of the facts the evaluation was based on.
	// Two evaluations with the same fingerprint saw identical facts.
	Fingerprint string `json:"fingerprint,omitempty"`

	// ScannedAt is when the external scanners collected the facts, if known.
	ScannedAt time.Time `json:"scanned_at,omitzero"`

	// EvaluatedAt is when the checks were evaluated.
	EvaluatedAt time.Time `json:"evaluated_at"`

	// Source is the fact file the report was built from, if any.
	Source string `json:"source,omitempty"`

	// Categories holds one entry per evaluated category, in catalogue order.
	Categories []CategoryResult `json:"categories"`

	// Error contains any error message if the evaluation failed.
	Error string `json:"error,omitempty"`
}

// NewEvaluationReport creates an empty report for the target.
func NewEvaluationReport(target string) *EvaluationReport {
	return &EvaluationReport{
		ID:          uuid.NewString(),
		Target:      target,
		EvaluatedAt: time.Now(),
	}
}

// Category returns the results of the given category.
func (r *EvaluationReport) Category(c Category) (CategoryResult, bool) {
	for _, cr := range r.Categories {
		if cr.Category == c {
			return cr, true
		}
	}
	return CategoryResult{}, false
}

// Lookup returns the result of a check in a category.
func (r *EvaluationReport) Lookup(c Category, name string) (CheckResult, bool) {
	cr, ok := r.Category(c)
	if !ok {
		return CheckResult{}, false
	}
	return cr.Lookup(name)
}

// TotalResults returns the number of results across all categories.
func (r *EvaluationReport) TotalResults() int {
	total := 0
	for _, cr := range r.Categories {
		total += len(cr.Results)
	}
	return total
}
