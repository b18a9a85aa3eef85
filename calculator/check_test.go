package calculator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/calculator"
)

func TestLoad(t *testing.T) {
	calcs, err := calculator.LoadFile("testdata/calculators.json")
	require.NoError(t, err)
	require.Len(t, calcs, 3)
	c := calcs[0]
	assert.Equal(t, "simple-interest", c.Slug)
	assert.Equal(t, "Finance", c.Cluster)
	require.Len(t, c.Inputs, 3)
	require.NotNil(t, c.Inputs[2].Default)
	assert.Equal(t, 1.0, *c.Inputs[2].Default)
	assert.Equal(t, "$", c.Units.Output)
	require.Len(t, c.Examples, 2)
	assert.True(t, c.Examples[0].Checkable())
	assert.False(t, c.Examples[1].Checkable())

	yc, err := calculator.LoadFile("testdata/calculators.yaml")
	require.NoError(t, err)
	require.Len(t, yc, 1)
	assert.Equal(t, "miles-to-km", yc[0].Slug)
	assert.Equal(t, map[string]float64{"m": 10}, yc[0].Examples[0].Input)

	_, err = calculator.Load(strings.NewReader(`{"slug": "not-an-array"}`))
	assert.Error(t, err)
	_, err = calculator.LoadFile("testdata/missing.json")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	calcs, err := calculator.LoadFile("testdata/calculators.json")
	require.NoError(t, err)
	outcomes, err := calculator.Check(context.Background(), calcs, calculator.CheckConfig{Workers: 2})
	require.NoError(t, err)
	// Two checkable examples; the legacy calculator has none.
	require.Len(t, outcomes, 2)
	assert.Equal(t, "simple-interest", outcomes[0].Slug)
	assert.Equal(t, 0, outcomes[0].Example)
	assert.Equal(t, 100.0, outcomes[0].Got)
	assert.True(t, outcomes[0].OK())
	assert.Equal(t, "bmi", outcomes[1].Slug)
	assert.InDelta(t, 24.22, outcomes[1].Got, 0.01)
	assert.True(t, outcomes[1].OK())
}

func TestCheckFailures(t *testing.T) {
	calcs := []calculator.Calculator{
		{
			Slug:       "tip",
			Title:      "Tip",
			Inputs:     []calculator.Input{{Name: "b"}, {Name: "p"}},
			Expression: "b * (p / 100)",
			Examples: []calculator.Example{
				{Input: map[string]float64{"b": 50, "p": 15}, Result: ptr(7.5)},
				{Input: map[string]float64{"b": 50, "p": 15}, Result: ptr(7.6)},
				{Input: map[string]float64{"b": 50}, Result: ptr(0)},
			},
		},
		{
			Slug:       "circle-area",
			Title:      "Circle area",
			Inputs:     []calculator.Input{{Name: "r"}},
			Expression: "Math.PI * r ** 2",
			Examples:   []calculator.Example{{Input: map[string]float64{"r": 3}, Result: ptr(28.27)}},
		},
	}
	outcomes, err := calculator.Check(context.Background(), calcs, calculator.CheckConfig{})
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)

	require.Len(t, outcomes, 4)
	assert.True(t, outcomes[0].OK())

	var mm *calculator.MismatchError
	require.ErrorAs(t, outcomes[1].Err, &mm)
	assert.Equal(t, calculator.DefaultTolerance, mm.Tolerance)
	assert.InDelta(t, 7.5, mm.Got, 1e-12)

	var ive *formula.InvalidVariableValueError
	require.ErrorAs(t, outcomes[2].Err, &ive)
	assert.Equal(t, "p", ive.Name)

	assert.Equal(t, "circle-area", outcomes[3].Slug)
	assert.Equal(t, -1, outcomes[3].Example)
	var se *formula.SyntaxError
	assert.ErrorAs(t, outcomes[3].Err, &se)

	assert.Contains(t, err.Error(), "tip example 1")
}

func TestCheckTolerance(t *testing.T) {
	calcs := []calculator.Calculator{{
		Slug:       "third",
		Title:      "Third",
		Inputs:     []calculator.Input{{Name: "x"}},
		Expression: "x / 3",
		Examples:   []calculator.Example{{Input: map[string]float64{"x": 1}, Result: ptr(0.3)}},
	}}
	_, err := calculator.Check(context.Background(), calcs, calculator.CheckConfig{})
	assert.Error(t, err)
	_, err = calculator.Check(context.Background(), calcs, calculator.CheckConfig{Tolerance: 0.05})
	assert.NoError(t, err)
}

func TestCheckCanceled(t *testing.T) {
	calcs, err := calculator.LoadFile("testdata/calculators.json")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes, err := calculator.Check(ctx, calcs, calculator.CheckConfig{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, outcomes)
}

func TestRegistry(t *testing.T) {
	calcs, err := calculator.LoadFile("testdata/calculators.json")
	require.NoError(t, err)
	calcs = append(calcs,
		calculator.Calculator{Slug: "bmi", Title: "Again", Inputs: []calculator.Input{{Name: "w"}}, Expression: "w"},
		calculator.Calculator{Slug: "broken", Title: "Broken", Expression: "x +"},
	)
	r, err := calculator.NewRegistry(calcs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate calculator bmi")
	assert.Contains(t, err.Error(), "broken")

	assert.Equal(t, []string{"bmi", "simple-interest"}, r.Slugs())
	assert.Equal(t, 2, r.Len())
	assert.Nil(t, r.Get("bmi-calculator"))
	assert.Nil(t, r.Get("broken"))
	p := r.Get("bmi")
	require.NotNil(t, p)
	v, err := p.Compute(map[string]float64{"w": 80, "h": 200})
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)
}
