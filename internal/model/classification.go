package model

import (
	"errors"
	"fmt"
	"strings"
)

// Classification is the severity verdict of a check result.
// The constants are ordered from least to most severe so that callers
// can compare them, although no aggregation is done in this package.
type Classification int

const (
	// ClassificationGood means the site behaves as recommended.
	ClassificationGood Classification = iota

	// ClassificationNeutral means the result is informational or the check
	// did not apply (for example "not checking X, as the server does not offer HTTPS").
	ClassificationNeutral

	// ClassificationBad means the site deviates from best practice.
	ClassificationBad

	// ClassificationCritical means a baseline requirement is not met,
	// such as the absence of HTTPS or TLS 1.2.
	ClassificationCritical
)

// Classifications lists every classification from least to most severe.
var Classifications = []Classification{
	ClassificationGood,
	ClassificationNeutral,
	ClassificationBad,
	ClassificationCritical,
}

// ErrUnknownClassification is returned when parsing an unrecognized classification name.
var ErrUnknownClassification = errors.New("unknown classification")

// String returns the lower-case name of the classification.
func (c Classification) String() string {
	switch c {
	case ClassificationGood:
		return "good"
	case ClassificationNeutral:
		return "neutral"
	case ClassificationBad:
		return "bad"
	case ClassificationCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseClassification converts a classification name back into its constant.
// Matching is case-insensitive.
func ParseClassification(s string) (Classification, error) {
	for _, c := range Classifications {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownClassification, s)
}

// MarshalText implements encoding.TextMarshaler so that classifications
// appear as their names in JSON and YAML.
func (c Classification) MarshalText() ([]byte, error) {
	if c < ClassificationGood || c > ClassificationCritical {
		return nil, fmt.Errorf("%w: %d", ErrUnknownClassification, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Classification) UnmarshalText(text []byte) error {
	parsed, err := ParseClassification(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Rating is a classification together with the two modifiers that tell
// the score aggregator how to treat the result.
type Rating struct {
	// Classification is the severity verdict.
	Classification Classification `json:"classification"`

	// DevaluatesGroup marks a result that should cap or pull down the
	// enclosing category's aggregate rating, independent of its own severity.
	// It is set when a scan step failed or a prerequisite is absent.
	DevaluatesGroup bool `json:"devaluates_group"`

	// InfluencesRanking tells whether the result counts toward the numeric score.
	// Informational results (HPKP, "scanned via HTTPS only") set it to false.
	InfluencesRanking bool `json:"influences_ranking"`
}

// RatingOption customizes a Rating built with NewRating.
type RatingOption func(*Rating)

// DevaluatesGroup marks the rating as devaluating its category.
func DevaluatesGroup() RatingOption {
	return func(r *Rating) {
		r.DevaluatesGroup = true
	}
}

// Unranked excludes the rating from the numeric score.
func Unranked() RatingOption {
	return func(r *Rating) {
		r.InfluencesRanking = false
	}
}

// NewRating returns a rating with the given classification.
// By default the rating does not devaluate its group and influences ranking.
func NewRating(c Classification, opts ...RatingOption) Rating {
	r := Rating{
		Classification:    c,
		InfluencesRanking: true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
