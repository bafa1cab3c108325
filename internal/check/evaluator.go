package check

import (
	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
)

// Evaluate resolves one check against a store.
//
// When every declared key is present the rules decide; otherwise the
// check's Missing result is returned unchanged. The boolean is false when
// the check abstains. Evaluate has no side effects and may be called
// concurrently.
func Evaluate(def *Definition, store *facts.Store) (model.Result, bool) {
	if !store.HasAll(def.Keys) {
		if def.Missing == nil {
			return model.Result{}, false
		}
		return def.Missing.Clone(), true
	}
	return decide(def.Rules, newInput(def, store))
}
