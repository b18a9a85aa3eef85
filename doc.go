// Package formula implements a safe evaluator for the arithmetic formulas that
// drive calculator pages.
//
// A formula is an infix expression over decimal numbers, identifiers, the
// binary operators + - * / ^ and parentheses, e.g. "(p * r * t) / 100". "^"
// is exponentiation and is right-associative, so "2^3^2" is "2^(3^2)". There
// are no functions, no unary operators and no implicit multiplication.
//
// Every identifier must be named by a Whitelist before the formula is parsed,
// and its value is looked up only at evaluation time. Nothing in a formula is
// ever handed to another interpreter. Compile a formula once against the names
// a calculator declares, then Eval it for as many sets of values as needed.
// Arithmetic is IEEE-754 double precision, so 1/0 is +Inf rather than an
// error.
package formula
