package model

import "time"

// Counts tallies results by classification and by aggregation flag.
type Counts struct {
	Good     int `json:"good"`
	Neutral  int `json:"neutral"`
	Bad      int `json:"bad"`
	Critical int `json:"critical"`

	// Devaluating is the number of results with DevaluatesGroup set.
	Devaluating int `json:"devaluating"`

	// Unranked is the number of results excluded from the numeric score.
	Unranked int `json:"unranked"`
}

// Add tallies one rating.
func (c *Counts) Add(r Rating) {
	switch r.Classification {
	case ClassificationGood:
		c.Good++
	case ClassificationNeutral:
		c.Neutral++
	case ClassificationBad:
		c.Bad++
	case ClassificationCritical:
		c.Critical++
	}
	if r.DevaluatesGroup {
		c.Devaluating++
	}
	if !r.InfluencesRanking {
		c.Unranked++
	}
}

// Total returns the number of tallied results.
func (c Counts) Total() int {
	return c.Good + c.Neutral + c.Bad + c.Critical
}

// Of returns the count for one classification.
func (c Counts) Of(cl Classification) int {
	switch cl {
	case ClassificationGood:
		return c.Good
	case ClassificationNeutral:
		return c.Neutral
	case ClassificationBad:
		return c.Bad
	case ClassificationCritical:
		return c.Critical
	default:
		return 0
	}
}

// CategorySummary holds the counts of one category.
type CategorySummary struct {
	Category Category `json:"category"`
	Counts
}

// Summary is a condensed view of an EvaluationReport.
// It only counts results; turning counts into a grade is left to the consumer.
type Summary struct {
	Target      string            `json:"target"`
	EvaluatedAt time.Time         `json:"evaluated_at"`
	Counts                        // totals across all categories
	Categories  []CategorySummary `json:"categories"`
}

// NewSummary builds a summary from a report.
func NewSummary(report *EvaluationReport) *Summary {
	s := &Summary{
		Target:      report.Target,
		EvaluatedAt: report.EvaluatedAt,
		Categories:  make([]CategorySummary, 0, len(report.Categories)),
	}
	for _, cr := range report.Categories {
		cs := CategorySummary{Category: cr.Category}
		for _, res := range cr.Results {
			cs.Add(res.Result.Rating)
			s.Add(res.Result.Rating)
		}
		s.Categories = append(s.Categories, cs)
	}
	return s
}

// HasCritical reports whether any result is critical.
func (s *Summary) HasCritical() bool {
	return s.Critical > 0
}

// Failing returns the results classified bad or critical, in report order.
func Failing(report *EvaluationReport) []NamedResult {
	var out []NamedResult
	for _, cr := range report.Categories {
		for _, res := range cr.Results {
			c := res.Result.Rating.Classification
			if c == ClassificationBad || c == ClassificationCritical {
				out = append(out, NamedResult{Category: cr.Category, CheckResult: res})
			}
		}
	}
	return out
}

// NamedResult is a CheckResult together with its category.
type NamedResult struct {
	Category Category `json:"category"`
	CheckResult
}
