package model

import "time"

// ChangeKind describes how one check's result differs between two evaluations.
type ChangeKind string

const (
	// ChangeImproved means the classification became less severe.
	ChangeImproved ChangeKind = "improved"
	// ChangeWorsened means the classification became more severe.
	ChangeWorsened ChangeKind = "worsened"
	// ChangeNew means the check produced a result only in the current evaluation.
	ChangeNew ChangeKind = "new"
	// ChangeRemoved means the check produced a result only in the previous evaluation.
	ChangeRemoved ChangeKind = "removed"
)

// Direction values of a Comparison.
const (
	DirectionImproved  = "improved"
	DirectionWorsened  = "worsened"
	DirectionUnchanged = "unchanged"
)

// Change is the difference of one check between two evaluations.
type Change struct {
	Category Category   `json:"category"`
	Name     string     `json:"name"`
	Kind     ChangeKind `json:"kind"`

	// Previous is nil for new results.
	Previous *Result `json:"previous,omitempty"`
	// Current is nil for removed results.
	Current *Result `json:"current,omitempty"`
}

// ComparedEvaluation identifies one side of a comparison.
type ComparedEvaluation struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	EvaluatedAt time.Time `json:"evaluated_at"`
	Counts      Counts    `json:"counts"`
}

// Comparison is the per-check difference between two evaluations of a target.
type Comparison struct {
	Target   string             `json:"target"`
	Previous ComparedEvaluation `json:"previous"`
	Current  ComparedEvaluation `json:"current"`

	// Changes lists the checks whose classification changed or that
	// appear in only one evaluation, in current report order followed by
	// removed checks in previous report order.
	Changes []Change `json:"changes"`

	// Unchanged is the number of checks with the same classification in both.
	Unchanged int `json:"unchanged"`

	// Direction is DirectionImproved when more checks improved than
	// worsened, DirectionWorsened in the opposite case and
	// DirectionUnchanged otherwise.
	Direction string `json:"direction"`
}

// Count returns the number of changes of one kind.
func (c *Comparison) Count(kind ChangeKind) int {
	n := 0
	for _, ch := range c.Changes {
		if ch.Kind == kind {
			n++
		}
	}
	return n
}

type checkID struct {
	category Category
	name     string
}

func metadataOf(r *EvaluationReport) ComparedEvaluation {
	return ComparedEvaluation{
		ID:          r.ID,
		Fingerprint: r.Fingerprint,
		EvaluatedAt: r.EvaluatedAt,
		Counts:      NewSummary(r).Counts,
	}
}

// Compare computes the per-check changes from previous to current.
func Compare(previous, current *EvaluationReport) *Comparison {
	cmp := &Comparison{
		Target:   current.Target,
		Previous: metadataOf(previous),
		Current:  metadataOf(current),
		Changes:  []Change{},
	}

	before := make(map[checkID]Result)
	for _, cr := range previous.Categories {
		for _, res := range cr.Results {
			before[checkID{cr.Category, res.Name}] = res.Result
		}
	}

	seen := make(map[checkID]bool)
	for _, cr := range current.Categories {
		for _, res := range cr.Results {
			id := checkID{cr.Category, res.Name}
			seen[id] = true
			cur := res.Result.Clone()

			prev, ok := before[id]
			if !ok {
				cmp.Changes = append(cmp.Changes, Change{Category: cr.Category, Name: res.Name, Kind: ChangeNew, Current: &cur})
				continue
			}

			was, is := prev.Rating.Classification, cur.Rating.Classification
			if was == is {
				cmp.Unchanged++
				continue
			}
			kind := ChangeWorsened
			if is < was {
				kind = ChangeImproved
			}
			p := prev.Clone()
			cmp.Changes = append(cmp.Changes, Change{Category: cr.Category, Name: res.Name, Kind: kind, Previous: &p, Current: &cur})
		}
	}

	for _, cr := range previous.Categories {
		for _, res := range cr.Results {
			if seen[checkID{cr.Category, res.Name}] {
				continue
			}
			p := res.Result.Clone()
			cmp.Changes = append(cmp.Changes, Change{Category: cr.Category, Name: res.Name, Kind: ChangeRemoved, Previous: &p})
		}
	}

	improved, worsened := cmp.Count(ChangeImproved), cmp.Count(ChangeWorsened)
	switch {
	case improved > worsened:
		cmp.Direction = DirectionImproved
	case worsened > improved:
		cmp.Direction = DirectionWorsened
	default:
		cmp.Direction = DirectionUnchanged
	}

	return cmp
}
