package check

import (
	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

// Reliability labels attached to checks. They are informational only.
const (
	LabelReliable   = "reliable"
	LabelUnreliable = "unreliable"
)

// Definition describes one check.
type Definition struct {
	// Name identifies the check within its category.
	Name string

	// Category is the namespace the check belongs to.
	Category model.Category

	// Keys are the facts the rules may read. The rules only run when
	// every key is present.
	Keys []facts.Key

	// Rules are evaluated in order; the first rule whose condition holds
	// decides the outcome. When no rule matches the check abstains.
	Rules []Rule

	// Missing is the result emitted when a key is absent.
	// A nil Missing makes the check abstain in that case.
	Missing *model.Result

	// Title and LongDescription are optional human-readable metadata.
	Title           string
	LongDescription string

	// Labels are informational reliability labels.
	Labels []string
}

// MissingBehavior describes what the check does when facts are absent.
func (d *Definition) MissingBehavior() string {
	if d.Missing == nil {
		return "abstain"
	}
	return d.Missing.Rating.Classification.String()
}

func keys(k ...facts.Key) []facts.Key {
	return k
}

func missing(r model.Result) *model.Result {
	return &r
}
