package pipeline

import (
	"slices"
	"strings"
	"sync"

	"github.com/nao1215/sitescore/internal/check"
)

// Catalogues caches check catalogues per set of extra GDPR countries.
// Building and validating a catalogue is costly, and most targets share
// the default one. It is safe for concurrent use.
type Catalogues struct {
	mu    sync.Mutex
	cache map[string]*check.Catalogue
}

// NewCatalogues creates an empty cache.
func NewCatalogues() *Catalogues {
	return &Catalogues{cache: make(map[string]*check.Catalogue)}
}

// For returns the catalogue that treats the given countries as GDPR states.
func (c *Catalogues) For(extraGDPRCountries []string) (*check.Catalogue, error) {
	if len(extraGDPRCountries) == 0 {
		return check.Default()
	}

	countries := slices.Clone(extraGDPRCountries)
	slices.Sort(countries)
	countries = slices.Compact(countries)
	key := strings.Join(countries, "\x00")

	c.mu.Lock()
	defer c.mu.Unlock()

	if cat, ok := c.cache[key]; ok {
		return cat, nil
	}
	cat, err := check.Build(check.WithExtraGDPRCountries(countries...))
	if err != nil {
		return nil, err
	}
	c.cache[key] = cat
	return cat, nil
}
