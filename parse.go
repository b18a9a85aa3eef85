package formula

import "math"

type opKind int8

const (
	opAdd opKind = iota
	opSub
	opMul
	opDiv
	opPow
	numOps
)

type operator struct {
	// sym is the operator's character.
	sym byte
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// apply computes a op b.
	apply func(a, b float64) float64
}

// operators is indexed by opKind.
var operators = [numOps]operator{
	opAdd: {'+', 1, false, func(a, b float64) float64 { return a + b }},
	opSub: {'-', 1, false, func(a, b float64) float64 { return a - b }},
	opMul: {'*', 2, false, func(a, b float64) float64 { return a * b }},
	opDiv: {'/', 2, false, func(a, b float64) float64 { return a / b }},
	opPow: {'^', 3, true, math.Pow},
}

// opFor gets the operator for a rune.
func opFor(r rune) (opKind, bool) {
	for k, op := range operators {
		if rune(op.sym) == r {
			return opKind(k), true
		}
	}
	return 0, false
}

// yields reports whether an operator already on the stack must be output
// before pushing op.
func (op operator) yields(top operator) bool {
	if op.right {
		return op.prec < top.prec
	}
	return op.prec <= top.prec
}

// parse converts infix tokens to postfix order with the shunting-yard
// algorithm. Identifiers are passed through unresolved.
func parse(toks []token) ([]token, error) {
	out := make([]token, 0, len(toks))
	var stack []token
	for _, tok := range toks {
		switch tok.kind {
		case tokenNum, tokenIdent:
			out = append(out, tok)
		case tokenOp:
			op := operators[tok.op]
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.kind != tokenOp || !op.yields(operators[top.op]) {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		case tokenOpen:
			stack = append(stack, tok)
		case tokenClose:
			for {
				if len(stack) == 0 {
					return nil, &MismatchedParenthesesError{Col: tok.pos, Paren: ")"}
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.kind == tokenOpen {
					break
				}
				out = append(out, top)
			}
		default:
			panic("formula: unknown token: " + tok.String())
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.kind == tokenOpen {
			return nil, &MismatchedParenthesesError{Col: top.pos, Paren: "("}
		}
		out = append(out, top)
	}
	return out, nil
}
