package check

import "errors"

// Catalogue validation errors. Build joins every problem it finds, so
// callers can test for each kind with errors.Is.
var (
	// ErrDuplicateCheck is returned when two checks of a category share a name.
	ErrDuplicateCheck = errors.New("duplicate check name")

	// ErrUnknownCategory is returned when a check names a category outside the catalogue.
	ErrUnknownCategory = errors.New("unknown check category")

	// ErrInvalidDefinition is returned for structurally broken definitions:
	// an empty name, no keys, no rules, or a rule with neither outcome nor abstain.
	ErrInvalidDefinition = errors.New("invalid check definition")

	// ErrUndeclaredKey is returned when a rule reads a fact outside the check's keys.
	ErrUndeclaredKey = errors.New("check reads undeclared fact")

	// ErrInvalidResult is returned when a rule yields a result without a
	// description or with an unknown classification.
	ErrInvalidResult = errors.New("check produced an invalid result")

	// ErrNotTotal is returned when a rule panics for some combination of facts.
	ErrNotTotal = errors.New("check is not total")

	// ErrUnknownCheck is returned by lookups for a check that does not exist.
	ErrUnknownCheck = errors.New("unknown check")
)
