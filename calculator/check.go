package calculator

import (
	"context"
	"math"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/formula"
)

// DefaultTolerance is the default absolute tolerance for checking examples.
const DefaultTolerance = 0.01

// CheckConfig configures Check.
type CheckConfig struct {
	// Workers is the maximum number of examples evaluated at once. Zero or
	// negative means no limit.
	Workers int
	// Tolerance is the largest absolute difference between a computed and an
	// expected result that still passes. Zero means DefaultTolerance.
	Tolerance float64
	// Options are passed to Prepare.
	Options []formula.Option
}

// Outcome is the result of checking one example, or of preparing a
// calculator that could not be prepared.
type Outcome struct {
	Slug string
	// Example is the index of the example in the calculator, or -1 if the
	// calculator itself failed to prepare.
	Example     int
	Description string
	Want        float64
	Got         float64
	Err         error
}

// OK returns whether the outcome is a pass.
func (o *Outcome) OK() bool {
	return o.Err == nil
}

// MismatchError is an error indicating an example whose computed result
// differs from the expected one by more than the tolerance.
type MismatchError struct {
	Got, Want, Tolerance float64
}

func (err *MismatchError) Error() string {
	g := strconv.FormatFloat(err.Got, 'g', -1, 64)
	w := strconv.FormatFloat(err.Want, 'g', -1, 64)
	t := strconv.FormatFloat(err.Tolerance, 'g', -1, 64)
	return "got " + g + ", want " + w + " within " + t
}

// Check prepares every calculator and evaluates every checkable example
// concurrently. Outcomes are in the order of calcs and their examples. The
// error aggregates every failed outcome; if ctx is canceled, Check instead
// returns no outcomes and the context's error.
func Check(ctx context.Context, calcs []Calculator, cfg CheckConfig) ([]Outcome, error) {
	tol := cfg.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	var outcomes []Outcome
	type job struct {
		k  int
		p  *Prepared
		ex Example
	}
	var jobs []job
	for _, c := range calcs {
		p, err := Prepare(c, cfg.Options...)
		if err != nil {
			outcomes = append(outcomes, Outcome{Slug: c.Slug, Example: -1, Err: err})
			continue
		}
		for i, ex := range c.Examples {
			if !ex.Checkable() {
				continue
			}
			jobs = append(jobs, job{k: len(outcomes), p: p, ex: ex})
			outcomes = append(outcomes, Outcome{Slug: c.Slug, Example: i, Description: ex.Description, Want: *ex.Result})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := &outcomes[j.k]
			o.Got, o.Err = j.p.Compute(j.ex.Input)
			if o.Err == nil && !(math.Abs(o.Got-o.Want) <= tol) {
				o.Err = &MismatchError{Got: o.Got, Want: o.Want, Tolerance: tol}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merr *multierror.Error
	for _, o := range outcomes {
		if o.Err == nil {
			continue
		}
		if o.Example < 0 {
			merr = multierror.Append(merr, o.Err)
			continue
		}
		merr = multierror.Append(merr, errors.Wrapf(o.Err, "%s example %d", o.Slug, o.Example))
	}
	return outcomes, merr.ErrorOrNil()
}
