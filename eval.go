package formula

import "math"

// Eval evaluates the formula with the given variable values. Every variable
// the formula references must have a finite value in vars; other entries are
// ignored. Eval does not modify f or vars, so it is safe to call concurrently.
func (f *Formula) Eval(vars map[string]float64) (float64, error) {
	stack := make([]float64, 0, f.depth)
	for _, tok := range f.rpn {
		switch tok.kind {
		case tokenNum:
			stack = append(stack, tok.num)
		case tokenIdent:
			v, ok := vars[tok.text]
			if !ok {
				return 0, &InvalidVariableValueError{Col: tok.pos, Name: tok.text, Missing: true}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, &InvalidVariableValueError{Col: tok.pos, Name: tok.text, Value: v}
			}
			stack = append(stack, v)
		case tokenOp:
			n := len(stack)
			if n < 2 {
				return 0, &MalformedExpressionError{Col: tok.pos, Op: tok.text}
			}
			// The second value popped is the left operand.
			stack[n-2] = operators[tok.op].apply(stack[n-2], stack[n-1])
			stack = stack[:n-1]
		default:
			panic("formula: invalid RPN token " + tok.String())
		}
	}
	if len(stack) != 1 {
		return 0, &MalformedExpressionError{Col: f.end, Depth: len(stack)}
	}
	return stack[0], nil
}

// Check reports the MalformedExpressionError, if any, that Eval would return
// for every set of valid variable values. A formula that passes Check fails
// Eval only for missing or non-finite values.
func (f *Formula) Check() error {
	depth := 0
	for _, tok := range f.rpn {
		switch tok.kind {
		case tokenNum, tokenIdent:
			depth++
		case tokenOp:
			if depth < 2 {
				return &MalformedExpressionError{Col: tok.pos, Op: tok.text}
			}
			depth--
		}
	}
	if depth != 1 {
		return &MalformedExpressionError{Col: f.end, Depth: depth}
	}
	return nil
}
