package facts

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrUnknownKey is returned when a value is supplied for a key outside the schema.
	ErrUnknownKey = errors.New("unknown fact key")

	// ErrInvalidValue is returned when a value does not have the shape declared for its key.
	ErrInvalidValue = errors.New("invalid fact value")
)

// Store is an immutable set of facts for one target.
// The zero value is an empty store. A Store is safe for concurrent reads.
type Store struct {
	values map[Key]any
	extra  []string
}

// New builds a store from typed values. The Go type of each value must
// match the key's Kind: bool, int, string, []string, CookieStats, Headers
// or Vulnerabilities. Values are copied so later changes by the caller do
// not leak into the store.
func New(values map[Key]any) (*Store, error) {
	s := &Store{values: make(map[Key]any, len(values))}
	for k, v := range values {
		kind, ok := KindOf(k)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, k)
		}
		cv, err := copyValue(kind, v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, k, err)
		}
		s.values[k] = cv
	}
	return s, nil
}

// MustNew is like New but panics on error. It is intended for tests and
// for stores built from constant values.
func MustNew(values map[Key]any) *Store {
	s, err := New(values)
	if err != nil {
		panic(err)
	}
	return s
}

func copyValue(kind Kind, v any) (any, error) {
	switch kind {
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindInt:
		if i, ok := v.(int); ok {
			return i, nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindStrings:
		if l, ok := v.([]string); ok {
			if l == nil {
				return []string{}, nil
			}
			return slices.Clone(l), nil
		}
	case KindCookies:
		if c, ok := v.(CookieStats); ok {
			if c.ThirdPartyTrackDomains != nil {
				c.ThirdPartyTrackDomains = slices.Clone(c.ThirdPartyTrackDomains)
			}
			return c, nil
		}
	case KindHeaders:
		if h, ok := v.(Headers); ok {
			return h.clone(), nil
		}
	case KindVulnerabilities:
		if vv, ok := v.(Vulnerabilities); ok {
			out := make(Vulnerabilities, len(vv))
			for name, rec := range vv {
				if rec != (Vulnerability{}) {
					out[name] = rec
				}
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", kind, v)
}

// Has reports whether the key is present.
func (s *Store) Has(k Key) bool {
	if s == nil {
		return false
	}
	_, ok := s.values[k]
	return ok
}

// HasAll reports whether every key is present.
func (s *Store) HasAll(keys []Key) bool {
	for _, k := range keys {
		if !s.Has(k) {
			return false
		}
	}
	return true
}

// Missing returns the keys that are absent from the store, in the given order.
func (s *Store) Missing(keys []Key) []Key {
	var out []Key
	for _, k := range keys {
		if !s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Len returns the number of present keys.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Keys returns the present keys in lexical order.
func (s *Store) Keys() []Key {
	if s == nil {
		return nil
	}
	keys := slices.Collect(maps.Keys(s.values))
	slices.Sort(keys)
	return keys
}

// Extra returns the names of values that were loaded from a fact file
// but are not part of the schema. Checks never see them.
func (s *Store) Extra() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.extra)
}

func (s *Store) value(k Key) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[k]
	return v, ok
}

// Bool returns a boolean fact. Absent keys yield false.
func (s *Store) Bool(k Key) bool {
	v, _ := s.value(k)
	b, _ := v.(bool)
	return b
}

// Int returns an integer fact. Absent keys yield 0.
func (s *Store) Int(k Key) int {
	v, _ := s.value(k)
	i, _ := v.(int)
	return i
}

// String returns a string fact. Absent keys yield "".
func (s *Store) String(k Key) string {
	v, _ := s.value(k)
	str, _ := v.(string)
	return str
}

// Strings returns a copy of a list fact. Absent keys yield nil.
func (s *Store) Strings(k Key) []string {
	v, _ := s.value(k)
	l, _ := v.([]string)
	return slices.Clone(l)
}

// Cookies returns the cookie statistics fact.
func (s *Store) Cookies(k Key) CookieStats {
	v, _ := s.value(k)
	c, _ := v.(CookieStats)
	if c.ThirdPartyTrackDomains != nil {
		c.ThirdPartyTrackDomains = slices.Clone(c.ThirdPartyTrackDomains)
	}
	return c
}

// Headers returns a copy of the header checks fact.
func (s *Store) Headers(k Key) Headers {
	v, _ := s.value(k)
	h, _ := v.(Headers)
	return h.clone()
}

// Vulnerabilities returns a copy of the vulnerability records fact.
func (s *Store) Vulnerabilities(k Key) Vulnerabilities {
	v, _ := s.value(k)
	vv, _ := v.(Vulnerabilities)
	return vv.clone()
}
