package model

import "slices"

// DetailRow is one supporting row of a result's details list.
// Most checks emit single-element rows, e.g. one tracker domain per row.
type DetailRow []string

// Result is the verdict of one check for one target.
// A Result is created fresh on every evaluation and never mutated afterwards.
type Result struct {
	// Description is the human-readable text of the verdict.
	// It may embed interpolated counts or location names.
	Description string `json:"description"`

	// Rating holds the classification and its aggregation flags.
	Rating Rating `json:"classification"`

	// Details is the ordered list of supporting rows.
	// A nil slice (rendered as null) means the check offers no details,
	// while an empty slice means the check lists nothing.
	Details []DetailRow `json:"details_list"`

	// Finding is raw supplementary evidence, e.g. a vulnerability scanner's finding text.
	Finding string `json:"finding,omitempty"`
}

// NewResult creates a result without details.
func NewResult(description string, c Classification, opts ...RatingOption) Result {
	return Result{
		Description: description,
		Rating:      NewRating(c, opts...),
	}
}

// WithDetails returns a copy of the result carrying the given detail rows.
func (r Result) WithDetails(rows []DetailRow) Result {
	r.Details = rows
	return r
}

// WithFinding returns a copy of the result carrying the given finding text.
func (r Result) WithFinding(finding string) Result {
	r.Finding = finding
	return r
}

// Clone returns a deep copy of the result.
// The nil-ness of Details is preserved.
func (r Result) Clone() Result {
	if r.Details == nil {
		return r
	}
	rows := make([]DetailRow, len(r.Details))
	for i, row := range r.Details {
		rows[i] = slices.Clone(row)
	}
	r.Details = rows
	return r
}

// Equal reports whether two results are deep-equal, distinguishing
// nil details from an empty details list.
func (r Result) Equal(other Result) bool {
	if r.Description != other.Description || r.Rating != other.Rating || r.Finding != other.Finding {
		return false
	}
	if (r.Details == nil) != (other.Details == nil) {
		return false
	}
	return slices.EqualFunc(r.Details, other.Details, func(a, b DetailRow) bool {
		return slices.Equal(a, b)
	})
}

// SingleColumn converts a list of values into single-element detail rows.
// The result is never nil, so an empty input yields an empty details list.
func SingleColumn(values []string) []DetailRow {
	rows := make([]DetailRow, 0, len(values))
	for _, v := range values {
		rows = append(rows, DetailRow{v})
	}
	return rows
}
