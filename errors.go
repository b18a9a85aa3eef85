package formula

import "strconv"

// EmptyExpressionError is an error indicating an expression with nothing but
// whitespace.
type EmptyExpressionError struct {
	// Col is the position at which an expression was expected.
	Col int
}

func (err *EmptyExpressionError) Error() string {
	return errpos(err.Col, "no expression")
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// SyntaxError indicates a character that cannot begin any token. It
// implements InputError.
type SyntaxError struct {
	// Col is the position of the character.
	Col int
	// Char is the offending character.
	Char rune
}

func (err *SyntaxError) Error() string {
	return errpos(err.Col, "unexpected character "+strconv.QuoteRune(err.Char))
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// UnknownVariableError indicates an identifier that the whitelist does not
// permit. It implements InputError.
type UnknownVariableError struct {
	// Col is the position of the identifier.
	Col int
	// Name is the identifier.
	Name string
}

func (err *UnknownVariableError) Error() string {
	return errpos(err.Col, "unknown variable "+strconv.Quote(err.Name))
}

func (err *UnknownVariableError) Pos() int {
	return err.Col
}

// MismatchedParenthesesError indicates a close paren with no open paren or an
// open paren that is never closed. It implements InputError.
type MismatchedParenthesesError struct {
	// Col is the position of the offending paren.
	Col int
	// Paren is the offending paren, either "(" or ")".
	Paren string
}

func (err *MismatchedParenthesesError) Error() string {
	if err.Paren == "(" {
		return errpos(err.Col, "open paren with no close paren")
	}
	return errpos(err.Col, "close paren with no open paren")
}

func (err *MismatchedParenthesesError) Pos() int {
	return err.Col
}

// InvalidVariableValueError indicates a whitelisted variable that has no value
// or has a value that is NaN or infinite at evaluation time. It implements
// InputError.
type InvalidVariableValueError struct {
	// Col is the position of the identifier that was evaluated.
	Col int
	// Name is the variable name.
	Name string
	// Value is the value the variable was bound to. It is zero if Missing.
	Value float64
	// Missing is whether the variable had no binding at all.
	Missing bool
}

func (err *InvalidVariableValueError) Error() string {
	if err.Missing {
		return errpos(err.Col, "no value for variable "+strconv.Quote(err.Name))
	}
	return errpos(err.Col, "invalid value "+strconv.FormatFloat(err.Value, 'g', -1, 64)+" for variable "+strconv.Quote(err.Name))
}

func (err *InvalidVariableValueError) Pos() int {
	return err.Col
}

// MalformedExpressionError indicates an expression that does not reduce to
// exactly one value, e.g. an operator missing an operand or two adjacent
// terms. It implements InputError.
type MalformedExpressionError struct {
	// Col is the position of the operator that lacked operands, or the
	// position just past the end of the expression if the problem was the
	// number of values remaining.
	Col int
	// Op is the operator that lacked operands. It is empty if the problem was
	// the number of values remaining.
	Op string
	// Depth is the number of values remaining when Op is empty.
	Depth int
}

func (err *MalformedExpressionError) Error() string {
	if err.Op != "" {
		return errpos(err.Col, "missing operand for "+strconv.Quote(err.Op))
	}
	if err.Depth == 0 {
		return errpos(err.Col, "expression has no value")
	}
	return errpos(err.Col, "expression leaves "+strconv.Itoa(err.Depth)+" values instead of 1")
}

func (err *MalformedExpressionError) Pos() int {
	return err.Col
}

// TooLongError indicates an expression longer than the configured maximum.
// It implements InputError.
type TooLongError struct {
	// Len is the length of the expression in runes.
	Len int
	// Max is the maximum length.
	Max int
}

func (err *TooLongError) Error() string {
	return errpos(err.Max+1, "expression of "+strconv.Itoa(err.Len)+" characters exceeds limit of "+strconv.Itoa(err.Max))
}

// Pos returns the first position past the limit.
func (err *TooLongError) Pos() int {
	return err.Max + 1
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based rune column of the start of the token that
	// caused the error.
	Pos() int
}

var (
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*UnknownVariableError)(nil)
	_ InputError = (*MismatchedParenthesesError)(nil)
	_ InputError = (*InvalidVariableValueError)(nil)
	_ InputError = (*MalformedExpressionError)(nil)
	_ InputError = (*TooLongError)(nil)
)
