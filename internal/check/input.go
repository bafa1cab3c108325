package check

import (
	"slices"

	"github.com/nao1215/sitescore/internal/facts"
)

// Input is the view of a facts.Store handed to a check's rules.
// It only serves the keys the check declared; reading any other key
// yields the zero value and is recorded as a catalogue defect.
type Input struct {
	store      *facts.Store
	declared   []facts.Key
	undeclared []facts.Key
}

func newInput(def *Definition, store *facts.Store) *Input {
	return &Input{store: store, declared: def.Keys}
}

func (in *Input) allowed(k facts.Key) bool {
	if slices.Contains(in.declared, k) {
		return true
	}
	if !slices.Contains(in.undeclared, k) {
		in.undeclared = append(in.undeclared, k)
	}
	return false
}

// Undeclared returns the keys that were read without being declared.
func (in *Input) Undeclared() []facts.Key {
	return slices.Clone(in.undeclared)
}

// Bool returns a boolean fact.
func (in *Input) Bool(k facts.Key) bool {
	if !in.allowed(k) {
		return false
	}
	return in.store.Bool(k)
}

// Int returns an integer fact.
func (in *Input) Int(k facts.Key) int {
	if !in.allowed(k) {
		return 0
	}
	return in.store.Int(k)
}

// String returns a string fact.
func (in *Input) String(k facts.Key) string {
	if !in.allowed(k) {
		return ""
	}
	return in.store.String(k)
}

// Strings returns a list fact.
func (in *Input) Strings(k facts.Key) []string {
	if !in.allowed(k) {
		return nil
	}
	return in.store.Strings(k)
}

// Cookies returns a cookie statistics fact.
func (in *Input) Cookies(k facts.Key) facts.CookieStats {
	if !in.allowed(k) {
		return facts.CookieStats{}
	}
	return in.store.Cookies(k)
}

// Headers returns a header checks fact.
func (in *Input) Headers(k facts.Key) facts.Headers {
	if !in.allowed(k) {
		return facts.Headers{}
	}
	return in.store.Headers(k)
}

// Vulnerabilities returns a vulnerability records fact.
func (in *Input) Vulnerabilities(k facts.Key) facts.Vulnerabilities {
	if !in.allowed(k) {
		return facts.Vulnerabilities{}
	}
	return in.store.Vulnerabilities(k)
}
