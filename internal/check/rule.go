package check

import (
	"fmt"

	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

// Condition inspects the facts of a check.
type Condition func(in *Input) bool

// Outcome builds the result of a matching rule.
type Outcome func(in *Input) model.Result

// Rule is one (condition, outcome) pair of a check.
type Rule struct {
	// When selects the rule. A nil When always matches.
	When Condition

	// Then builds the result. Exactly one of Then and Abstain must be set.
	Then Outcome

	// Abstain makes the check produce no result when the rule matches.
	Abstain bool
}

func (r Rule) matches(in *Input) bool {
	return r.When == nil || r.When(in)
}

// decide runs the rules first-match-wins.
func decide(rules []Rule, in *Input) (model.Result, bool) {
	for _, r := range rules {
		if !r.matches(in) {
			continue
		}
		if r.Abstain {
			return model.Result{}, false
		}
		return r.Then(in), true
	}
	return model.Result{}, false
}

// when builds a rule emitting a fixed result.
func when(c Condition, res model.Result) Rule {
	return Rule{When: c, Then: yield(res)}
}

// otherwise builds a catch-all rule emitting a fixed result.
func otherwise(res model.Result) Rule {
	return Rule{Then: yield(res)}
}

// abstainOtherwise is the catch-all rule of checks that only report on
// one condition.
func abstainOtherwise() Rule {
	return Rule{Abstain: true}
}

func yield(res model.Result) Outcome {
	return func(*Input) model.Result {
		return res.Clone()
	}
}

func result(description string, c model.Classification, opts ...model.RatingOption) model.Result {
	return model.NewResult(description, c, opts...)
}

func good(description string, opts ...model.RatingOption) model.Result {
	return result(description, model.ClassificationGood, opts...)
}

func neutral(description string, opts ...model.RatingOption) model.Result {
	return result(description, model.ClassificationNeutral, opts...)
}

func bad(description string, opts ...model.RatingOption) model.Result {
	return result(description, model.ClassificationBad, opts...)
}

func critical(description string, opts ...model.RatingOption) model.Result {
	return result(description, model.ClassificationCritical, opts...)
}

// Conditions shared by many checks.

func isTrue(k facts.Key) Condition {
	return func(in *Input) bool { return in.Bool(k) }
}

func isFalse(k facts.Key) Condition {
	return func(in *Input) bool { return !in.Bool(k) }
}

func allOf(cs ...Condition) Condition {
	return func(in *Input) bool {
		for _, c := range cs {
			if !c(in) {
				return false
			}
		}
		return true
	}
}

func anyOf(cs ...Condition) Condition {
	return func(in *Input) bool {
		for _, c := range cs {
			if c(in) {
				return true
			}
		}
		return false
	}
}

func not(c Condition) Condition {
	return func(in *Input) bool { return !c(in) }
}

// pluralize picks the singular text for exactly one item and formats the
// plural text with the count otherwise.
func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return fmt.Sprintf(many, n)
}
