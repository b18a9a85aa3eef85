// Package calculator prepares calculator definitions for evaluation.
//
// A calculator is the data an author writes for one calculator page: a slug,
// a title, the inputs the page asks for and a formula over those inputs. The
// formula is compiled once against the names of the calculator's numeric
// inputs, so values entered on the page can never reach anything but
// arithmetic.
package calculator

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/zephyrtronium/formula"
)

// Input types.
const (
	TypeNumber = "number"
	TypeText   = "text"
)

// Calculator is a calculator definition.
type Calculator struct {
	Slug       string    `json:"slug" validate:"required,slug"`
	Title      string    `json:"title" validate:"required"`
	Intro      string    `json:"intro,omitempty"`
	Cluster    string    `json:"cluster,omitempty"`
	Inputs     []Input   `json:"inputs" validate:"unique=Name,dive"`
	Expression string    `json:"expression" validate:"required"`
	Units      Units     `json:"units"`
	Examples   []Example `json:"examples,omitempty"`
}

// Input is one field of a calculator form.
type Input struct {
	Label       string `json:"label,omitempty"`
	Name        string `json:"name" validate:"required,ident"`
	Type        string `json:"type,omitempty" validate:"omitempty,oneof=number text"`
	Placeholder string `json:"placeholder,omitempty"`
	// Default is used when a computation supplies no value for the input.
	Default *float64 `json:"default,omitempty"`
}

// IsNumber returns whether the input holds a number. Inputs with no type are
// numbers.
func (in Input) IsNumber() bool {
	return in.Type == "" || in.Type == TypeNumber
}

// Units names the units of a calculator's inputs and result.
type Units struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Example is a worked example. Examples with both Input and Result can be
// checked; others are only descriptive.
type Example struct {
	Description string             `json:"description,omitempty"`
	Input       map[string]float64 `json:"input,omitempty"`
	Result      *float64           `json:"result,omitempty"`
}

// Checkable returns whether the example has values to check.
func (ex Example) Checkable() bool {
	return ex.Input != nil && ex.Result != nil
}

// NormalizeExpression rewrites the ** spelling of exponentiation to ^.
func NormalizeExpression(s string) string {
	return strings.ReplaceAll(s, "**", "^")
}

// Whitelist returns the names of the calculator's numeric inputs.
func (c *Calculator) Whitelist() formula.Whitelist {
	allow := formula.Allow()
	for _, in := range c.Inputs {
		if in.IsNumber() {
			allow[in.Name] = struct{}{}
		}
	}
	return allow
}

// Prepared is a validated calculator with its compiled formula. It is safe
// for concurrent use.
type Prepared struct {
	Calculator
	formula  *formula.Formula
	defaults map[string]float64
}

// Prepare validates a calculator and compiles its expression against its
// numeric inputs. Structural problems in the expression, such as an operator
// missing an operand, are reported here rather than at Compute.
func Prepare(c Calculator, opts ...formula.Option) (*Prepared, error) {
	if err := Validate(&c); err != nil {
		return nil, err
	}
	f, err := formula.Compile(NormalizeExpression(c.Expression), c.Whitelist(), opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "calculator %s", c.Slug)
	}
	if err := f.Check(); err != nil {
		return nil, errors.Wrapf(err, "calculator %s", c.Slug)
	}
	p := Prepared{
		Calculator: c,
		formula:    f,
		defaults:   make(map[string]float64),
	}
	for _, in := range c.Inputs {
		if in.IsNumber() && in.Default != nil {
			p.defaults[in.Name] = *in.Default
		}
	}
	return &p, nil
}

// Formula returns the compiled formula.
func (p *Prepared) Formula() *formula.Formula {
	return p.formula
}

// Compute evaluates the calculator. Inputs missing from values take their
// defaults. Errors are those of (*formula.Formula).Eval.
func (p *Prepared) Compute(values map[string]float64) (float64, error) {
	vars := make(map[string]float64, len(p.defaults)+len(values))
	for k, v := range p.defaults {
		vars[k] = v
	}
	for k, v := range values {
		vars[k] = v
	}
	return p.formula.Eval(vars)
}

// Dedupe drops calculators whose slug is "<base>-calculator" when a calculator
// with slug "<base>" is also present. Order is preserved.
func Dedupe(calcs []Calculator) []Calculator {
	slugs := make(map[string]bool, len(calcs))
	for _, c := range calcs {
		slugs[c.Slug] = true
	}
	out := make([]Calculator, 0, len(calcs))
	for _, c := range calcs {
		if base, ok := strings.CutSuffix(c.Slug, "-calculator"); ok && slugs[base] {
			continue
		}
		out = append(out, c)
	}
	return out
}
