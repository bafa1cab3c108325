package check

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/nao1215/sitescore/internal/facts"
	"github.com/nao1215/sitescore/internal/model"
	"golang.org/x/sync/errgroup"
)

// Catalogue is the immutable registry of checks grouped by category.
// It is safe for concurrent use once built.
type Catalogue struct {
	categories map[model.Category][]Definition
}

// Options configures the checks built into a catalogue.
type Options struct {
	// ExtraGDPRCountries are countries treated like GDPR states in
	// server location checks, in addition to the built-in list.
	ExtraGDPRCountries []string
}

// WithExtraGDPRCountries adds countries to the GDPR state list.
func WithExtraGDPRCountries(countries ...string) func(*Options) {
	return func(o *Options) {
		o.ExtraGDPRCountries = append(o.ExtraGDPRCountries, countries...)
	}
}

// Definitions returns the built-in checks of every category in declaration order.
func Definitions(opts ...func(*Options)) []Definition {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	var defs []Definition
	defs = append(defs, privacyChecks(newGDPRStates(o.ExtraGDPRCountries))...)
	defs = append(defs, securityChecks()...)
	defs = append(defs, sslChecks()...)
	defs = append(defs, mxChecks()...)
	return defs
}

// Build creates and validates the built-in catalogue.
func Build(opts ...func(*Options)) (*Catalogue, error) {
	return NewCatalogue(Definitions(opts...))
}

var defaultCatalogue = sync.OnceValues(func() (*Catalogue, error) {
	return Build()
})

// Default returns the process-wide built-in catalogue. It is built and
// validated on first use; a validation error is returned on every call.
func Default() (*Catalogue, error) {
	return defaultCatalogue()
}

// NewCatalogue validates the definitions and registers them in order.
// All problems are reported together; a non-nil error means the
// catalogue must not be used.
func NewCatalogue(defs []Definition) (*Catalogue, error) {
	c := &Catalogue{categories: make(map[model.Category][]Definition)}
	var errs []error
	seen := make(map[model.Category]map[string]bool)

	for i := range defs {
		def := cloneDefinition(defs[i])
		if _, err := model.ParseCategory(string(def.Category)); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %q", ErrUnknownCategory, def.Name, def.Category))
			continue
		}
		if seen[def.Category] == nil {
			seen[def.Category] = make(map[string]bool)
		}
		if seen[def.Category][def.Name] {
			errs = append(errs, fmt.Errorf("%w: %s/%s", ErrDuplicateCheck, def.Category, def.Name))
			continue
		}
		seen[def.Category][def.Name] = true

		if err := validate(&def); err != nil {
			errs = append(errs, err)
			continue
		}
		c.categories[def.Category] = append(c.categories[def.Category], def)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid check catalogue: %w", err)
	}
	return c, nil
}

func cloneDefinition(d Definition) Definition {
	d.Keys = slices.Clone(d.Keys)
	d.Rules = slices.Clone(d.Rules)
	d.Labels = slices.Clone(d.Labels)
	if d.Missing != nil {
		m := d.Missing.Clone()
		d.Missing = &m
	}
	return d
}

// Categories returns the categories that hold checks, in report order.
func (c *Catalogue) Categories() []model.Category {
	var out []model.Category
	for _, cat := range model.Categories() {
		if len(c.categories[cat]) > 0 {
			out = append(out, cat)
		}
	}
	return out
}

// Checks returns copies of the checks of a category in declaration order.
func (c *Catalogue) Checks(cat model.Category) []Definition {
	defs := c.categories[cat]
	out := make([]Definition, len(defs))
	for i := range defs {
		out[i] = cloneDefinition(defs[i])
	}
	return out
}

// Lookup returns a copy of a check.
func (c *Catalogue) Lookup(cat model.Category, name string) (Definition, error) {
	for i := range c.categories[cat] {
		if c.categories[cat][i].Name == name {
			return cloneDefinition(c.categories[cat][i]), nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %s/%s", ErrUnknownCheck, cat, name)
}

// Len returns the number of checks across all categories.
func (c *Catalogue) Len() int {
	n := 0
	for _, defs := range c.categories {
		n += len(defs)
	}
	return n
}

// Run evaluates every check of a category against the store, in
// declaration order, omitting checks that abstain. No check sees the
// result of another.
func (c *Catalogue) Run(cat model.Category, store *facts.Store) model.CategoryResult {
	out := model.CategoryResult{Category: cat, Results: []model.CheckResult{}}
	defs := c.categories[cat]
	for i := range defs {
		def := &defs[i]
		res, ok := Evaluate(def, store)
		if !ok {
			continue
		}
		out.Results = append(out.Results, model.CheckResult{
			Name:   def.Name,
			Title:  def.Title,
			Labels: slices.Clone(def.Labels),
			Result: res,
		})
	}
	return out
}

// RunAll evaluates several categories concurrently and returns their
// results in the order requested. With no categories given, every
// category of the catalogue is evaluated.
func (c *Catalogue) RunAll(ctx context.Context, store *facts.Store, cats ...model.Category) ([]model.CategoryResult, error) {
	if len(cats) == 0 {
		cats = c.Categories()
	}
	for _, cat := range cats {
		if _, err := model.ParseCategory(string(cat)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownCategory, err)
		}
	}

	results := make([]model.CategoryResult, len(cats))
	g, ctx := errgroup.WithContext(ctx)
	for i, cat := range cats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.Run(cat, store)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
