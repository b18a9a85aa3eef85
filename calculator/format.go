package calculator

import (
	"math"
	"strconv"
	"strings"
)

// FormatResult formats a result for display. Results with five or more
// decimal places are rounded to four, and results with exactly three are
// rounded to two; others are shown as they are. If money is true, the result
// is prefixed with currency.
func FormatResult(v float64, money bool, currency string) string {
	var s string
	switch {
	case math.IsNaN(v):
		s = "NaN"
	case math.IsInf(v, 1):
		s = "Infinity"
	case math.IsInf(v, -1):
		s = "-Infinity"
	default:
		s = strconv.FormatFloat(roundDisplay(v), 'f', -1, 64)
	}
	if money {
		return currency + s
	}
	return s
}

func roundDisplay(v float64) float64 {
	_, frac, _ := strings.Cut(strconv.FormatFloat(v, 'f', -1, 64), ".")
	switch n := len(frac); {
	case n >= 5:
		return roundTo(v, 4)
	case n == 3:
		return roundTo(v, 2)
	default:
		return v
	}
}

// roundTo rounds half away from zero to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if math.IsInf(r, 0) {
		// v*p overflowed; v has no fraction worth rounding.
		return v
	}
	return r
}

// currencies are the output units displayed as a prefix.
var currencies = map[string]bool{"$": true, "€": true, "£": true, "¥": true}

// Display formats a result of the calculator for display, prefixing the
// output unit when it is a currency symbol.
func (c *Calculator) Display(v float64) string {
	return FormatResult(v, currencies[c.Units.Output], c.Units.Output)
}
