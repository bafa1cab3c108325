package check

import (
	"fmt"

	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

// maxSamples bounds the number of synthesized stores per check. Checks with
// more combinations are sampled with one store per value index instead.
const maxSamples = 4096

// validate checks the structure of a definition and then runs its rules
// against synthesized stores covering representative values of every
// declared key.
func validate(def *Definition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: check without a name in category %s", ErrInvalidDefinition, def.Category)
	}
	if len(def.Keys) == 0 {
		return fmt.Errorf("%w: %s declares no facts", ErrInvalidDefinition, def.Name)
	}
	for _, k := range def.Keys {
		if _, ok := facts.KindOf(k); !ok {
			return fmt.Errorf("%w: %s: %w: %s", ErrInvalidDefinition, def.Name, facts.ErrUnknownKey, k)
		}
	}
	if len(def.Rules) == 0 {
		return fmt.Errorf("%w: %s has no rules", ErrInvalidDefinition, def.Name)
	}
	for i, r := range def.Rules {
		if (r.Then == nil) == !r.Abstain {
			return fmt.Errorf("%w: %s: rule %d must either yield a result or abstain", ErrInvalidDefinition, def.Name, i)
		}
	}
	if def.Missing != nil {
		if err := validResult(*def.Missing); err != nil {
			return fmt.Errorf("%s: missing result: %w", def.Name, err)
		}
	}

	for _, store := range sampleStores(def.Keys) {
		if err := trySample(def, store); err != nil {
			return err
		}
	}
	return nil
}

func validResult(r model.Result) error {
	if r.Description == "" {
		return fmt.Errorf("%w: empty description", ErrInvalidResult)
	}
	if _, err := r.Rating.Classification.MarshalText(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResult, err)
	}
	return nil
}

func trySample(def *Definition, store *facts.Store) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s panicked on %v: %v", ErrNotTotal, def.Name, store.Keys(), p)
		}
	}()

	in := newInput(def, store)
	res, ok := decide(def.Rules, in)
	if undeclared := in.Undeclared(); len(undeclared) > 0 {
		return fmt.Errorf("%w: %s reads %v", ErrUndeclaredKey, def.Name, undeclared)
	}
	if ok {
		if err := validResult(res); err != nil {
			return fmt.Errorf("%s: %w", def.Name, err)
		}
	}
	return nil
}

// sampleValues returns representative values of a kind. The first value
// is always the zero value.
func sampleValues(kind facts.Kind) []any {
	switch kind {
	case facts.KindBool:
		return []any{false, true}
	case facts.KindInt:
		return []any{0, 1, 2}
	case facts.KindString:
		return []any{"", "http://sample.invalid/", "https://sample.invalid/"}
	case facts.KindStrings:
		return []any{[]string{}, []string{"sample.invalid"}, []string{"Germany", "", "Brazil"}}
	case facts.KindCookies:
		return []any{
			facts.CookieStats{},
			facts.CookieStats{
				FirstPartyShort: 1, FirstPartyLong: 1, FirstPartyFlash: 1,
				ThirdPartyShort: 1, ThirdPartyLong: 1, ThirdPartyFlash: 1,
				ThirdPartyTrack: 1, ThirdPartyTrackUniq: 1,
				ThirdPartyTrackDomains: []string{"tracker.invalid"},
			},
		}
	case facts.KindHeaders:
		set := facts.Headers{}
		unset := facts.Headers{}
		for _, h := range securityHeaders {
			set[h.header] = &facts.HeaderCheck{Status: "OK"}
			unset[h.header] = &facts.HeaderCheck{Status: facts.HeaderStatusMissing}
		}
		return []any{facts.Headers{}, set, unset}
	case facts.KindVulnerabilities:
		all := facts.Vulnerabilities{}
		for _, v := range vulnerabilities {
			all[v.record] = facts.Vulnerability{Finding: "sample"}
		}
		return []any{facts.Vulnerabilities{}, all}
	default:
		return []any{nil}
	}
}

// sampleStores builds stores over the cartesian product of sample values
// of the given keys.
func sampleStores(ks []facts.Key) []*facts.Store {
	values := make([][]any, len(ks))
	total := 1
	widest := 0
	for i, k := range ks {
		kind, _ := facts.KindOf(k)
		values[i] = sampleValues(kind)
		total *= len(values[i])
		widest = max(widest, len(values[i]))
	}

	var stores []*facts.Store
	if total > maxSamples {
		for n := range widest {
			m := make(map[facts.Key]any, len(ks))
			for i, k := range ks {
				m[k] = values[i][min(n, len(values[i])-1)]
			}
			stores = append(stores, facts.MustNew(m))
		}
		return stores
	}

	idx := make([]int, len(ks))
	for range total {
		m := make(map[facts.Key]any, len(ks))
		for i, k := range ks {
			m[k] = values[i][idx[i]]
		}
		stores = append(stores, facts.MustNew(m))
		for i := range idx {
			idx[i]++
			if idx[i] < len(values[i]) {
				break
			}
			idx[i] = 0
		}
	}
	return stores
}
