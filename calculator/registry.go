package calculator

import (
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/zephyrtronium/formula"
)

// Registry is a read-only set of prepared calculators keyed by slug. It is
// safe for concurrent use.
type Registry struct {
	calcs map[string]*Prepared
	slugs []string
}

// NewRegistry dedupes and prepares calculators. Calculators that fail to
// prepare or repeat an earlier slug are left out; the error aggregates those
// failures, and the registry holds the rest.
func NewRegistry(calcs []Calculator, opts ...formula.Option) (*Registry, error) {
	r := Registry{calcs: make(map[string]*Prepared, len(calcs))}
	var merr *multierror.Error
	for _, c := range Dedupe(calcs) {
		if _, ok := r.calcs[c.Slug]; ok {
			merr = multierror.Append(merr, errors.Errorf("duplicate calculator %s", c.Slug))
			continue
		}
		p, err := Prepare(c, opts...)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		r.calcs[c.Slug] = p
		r.slugs = append(r.slugs, c.Slug)
	}
	sort.Strings(r.slugs)
	return &r, merr.ErrorOrNil()
}

// Get returns the calculator with the given slug, or nil if there is none.
func (r *Registry) Get(slug string) *Prepared {
	return r.calcs[slug]
}

// Slugs returns the slugs of all calculators in sorted order.
func (r *Registry) Slugs() []string {
	return append(([]string)(nil), r.slugs...)
}

// Len returns the number of calculators.
func (r *Registry) Len() int {
	return len(r.slugs)
}
