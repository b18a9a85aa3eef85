package calculator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/calculator"
)

func ptr(v float64) *float64 {
	return &v
}

func interest() calculator.Calculator {
	return calculator.Calculator{
		Slug:  "simple-interest",
		Title: "Simple Interest Calculator",
		Inputs: []calculator.Input{
			{Label: "Principal", Name: "p", Type: calculator.TypeNumber},
			{Label: "Rate (%)", Name: "r"},
			{Label: "Time (years)", Name: "t", Default: ptr(1)},
			{Label: "Note", Name: "note", Type: calculator.TypeText},
		},
		Expression: "(p * r * t) / 100",
	}
}

func TestPrepareCompute(t *testing.T) {
	p, err := calculator.Prepare(interest())
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "r", "t"}, p.Formula().Vars())

	r, err := p.Compute(map[string]float64{"p": 1000, "r": 5, "t": 2})
	require.NoError(t, err)
	assert.Equal(t, 100.0, r)

	// t falls back to its default.
	r, err = p.Compute(map[string]float64{"p": 1000, "r": 5})
	require.NoError(t, err)
	assert.Equal(t, 50.0, r)

	_, err = p.Compute(map[string]float64{"p": 1000})
	var ive *formula.InvalidVariableValueError
	require.ErrorAs(t, err, &ive)
	assert.Equal(t, "r", ive.Name)
	assert.True(t, ive.Missing)
}

func TestPrepareTextInputNotWhitelisted(t *testing.T) {
	c := interest()
	c.Expression = "p * note"
	_, err := calculator.Prepare(c)
	var uve *formula.UnknownVariableError
	require.ErrorAs(t, err, &uve)
	assert.Equal(t, "note", uve.Name)
	assert.Contains(t, err.Error(), "calculator simple-interest")
}

func TestPrepareNormalizes(t *testing.T) {
	c := interest()
	c.Expression = "p * (1 + r/100) ** t"
	p, err := calculator.Prepare(c)
	require.NoError(t, err)
	r, err := p.Compute(map[string]float64{"p": 100, "r": 10, "t": 2})
	require.NoError(t, err)
	assert.InDelta(t, 121.0, r, 1e-9)
}

func TestPrepareErrors(t *testing.T) {
	cases := []struct {
		name  string
		expr  string
		check func(error) bool
	}{
		{"malformed", "(p * (r/1200)) / (1 - (1 + (r/1200)) ^ (-t * 12))", isErr[*formula.MalformedExpressionError]},
		{"js-math", "Math.PI * r ** 2", isErr[*formula.SyntaxError]},
		{"function-call", "sqrt(p)", isErr[*formula.UnknownVariableError]},
		{"parens", "(p * r", isErr[*formula.MismatchedParenthesesError]},
		{"too-long", "p", isErr[*formula.TooLongError]},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			calc := interest()
			calc.Expression = c.expr
			var opts []formula.Option
			if c.name == "too-long" {
				calc.Expression = "p + p + p"
				opts = append(opts, formula.MaxLength(4))
			}
			_, err := calculator.Prepare(calc, opts...)
			require.Error(t, err)
			assert.True(t, c.check(err), "wrong error type %T: %v", err, err)
		})
	}
}

func isErr[E error](err error) bool {
	var e E
	return errors.As(err, &e)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*calculator.Calculator)
		fields []string
	}{
		{"ok", func(c *calculator.Calculator) {}, nil},
		{"no-slug", func(c *calculator.Calculator) { c.Slug = "" }, []string{"slug"}},
		{"bad-slug", func(c *calculator.Calculator) { c.Slug = "Simple Interest" }, []string{"slug"}},
		{"no-title", func(c *calculator.Calculator) { c.Title = "" }, []string{"title"}},
		{"no-expression", func(c *calculator.Calculator) { c.Expression = "" }, []string{"expression"}},
		{"bad-name", func(c *calculator.Calculator) { c.Inputs[1].Name = "rate %" }, []string{"inputs[1].name"}},
		{"bad-type", func(c *calculator.Calculator) { c.Inputs[0].Type = "date" }, []string{"inputs[0].type"}},
		{"dup-name", func(c *calculator.Calculator) { c.Inputs[1].Name = "p" }, []string{"inputs"}},
		{"several", func(c *calculator.Calculator) { c.Title = ""; c.Inputs[2].Name = "" }, []string{"inputs[2].name", "title"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			calc := interest()
			c.modify(&calc)
			err := calculator.Validate(&calc)
			if c.fields == nil {
				assert.NoError(t, err)
				return
			}
			var ve *calculator.ValidationError
			require.ErrorAs(t, err, &ve)
			got := make([]string, 0, len(ve.Fields))
			for k := range ve.Fields {
				got = append(got, k)
			}
			assert.ElementsMatch(t, c.fields, got)
			assert.Contains(t, err.Error(), "invalid calculator")
		})
	}
}

func TestNormalizeExpression(t *testing.T) {
	assert.Equal(t, "w / ((h / 100) ^ 2)", calculator.NormalizeExpression("w / ((h / 100) ** 2)"))
	assert.Equal(t, "a ^ b ^ c", calculator.NormalizeExpression("a ** b ^ c"))
	assert.Equal(t, "a * b", calculator.NormalizeExpression("a * b"))
}

func TestDedupe(t *testing.T) {
	calcs := []calculator.Calculator{
		{Slug: "bmi-calculator"},
		{Slug: "bmi"},
		{Slug: "tip-calculator"},
		{Slug: "calculator"},
	}
	got := calculator.Dedupe(calcs)
	slugs := make([]string, len(got))
	for i, c := range got {
		slugs[i] = c.Slug
	}
	assert.Equal(t, []string{"bmi", "tip-calculator", "calculator"}, slugs)
}

func TestFormatResult(t *testing.T) {
	cases := []struct {
		v     float64
		money bool
		want  string
	}{
		{100, false, "100"},
		{24.221453287197235, false, "24.2215"},
		{1.125, false, "1.13"},
		{-0.125, false, "-0.13"},
		{7.5, true, "$7.5"},
		{12.3456, false, "12.3456"},
		{1.0 / 3, true, "$0.3333"},
		{0, false, "0"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, calculator.FormatResult(c.v, c.money, "$"), "formatting %v", c.v)
	}
	assert.Equal(t, "Infinity", calculator.FormatResult(1/zero(), false, ""))
}

func TestDisplay(t *testing.T) {
	c := interest()
	assert.Equal(t, "100.13", c.Display(100.125))
	c.Units.Output = "$"
	assert.Equal(t, "$100.13", c.Display(100.125))
	c.Units.Output = "km"
	assert.Equal(t, "16.0934", c.Display(16.0934))
}

func zero() float64 {
	return 0
}
