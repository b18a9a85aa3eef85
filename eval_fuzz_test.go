package formula_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/formula"
)

func FuzzEvaluate(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("(p * r * t) / 100")
	f.Add("2^3^2")
	f.Add("((1)")
	f.Fuzz(func(t *testing.T, s string) {
		_, err := formula.Evaluate(s, map[string]float64{"x": 1}, formula.Allow("x"))
		if err == nil {
			return
		}
		var ie formula.InputError
		if !errors.As(err, &ie) {
			t.Errorf("%q: error %v has no position", s, err)
		}
	})
}
