package formula

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the default limit on the length of an expression, in
// runes.
const DefaultMaxLength = 4096

// Formula is a validated and parsed expression, ready to evaluate with any
// number of variable bindings. A Formula is immutable.
type Formula struct {
	// src is the original expression.
	src string
	// rpn is the postfix token sequence.
	rpn []token
	// names is the sorted list of distinct variable names used.
	names []string
	// depth is a capacity hint for the evaluation stack.
	depth int
	// end is the column just past the end of src.
	end int
}

// Option is an option for compiling expressions.
type Option interface {
	option(*config)
}

type config struct {
	maxlen int
}

type maxlenopt int

func (o maxlenopt) option(c *config) {
	c.maxlen = int(o)
}

// MaxLength limits the length of expressions, in runes. Zero or negative
// disables the limit. The default is DefaultMaxLength.
func MaxLength(n int) Option {
	return maxlenopt(n)
}

// Compile tokenizes src, checks every identifier against allow, and parses the
// result. The returned Formula may be evaluated many times.
func Compile(src string, allow Whitelist, opts ...Option) (*Formula, error) {
	c := config{maxlen: DefaultMaxLength}
	for _, opt := range opts {
		if opt != nil {
			opt.option(&c)
		}
	}
	n := utf8.RuneCountInString(src)
	if c.maxlen > 0 && n > c.maxlen {
		return nil, &TooLongError{Len: n, Max: c.maxlen}
	}
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	if err := validate(toks, allow); err != nil {
		return nil, err
	}
	rpn, err := parse(toks)
	if err != nil {
		return nil, err
	}
	f := Formula{
		src:   src,
		rpn:   rpn,
		depth: len(rpn)/2 + 1,
		end:   n + 1,
	}
	seen := make(map[string]bool)
	for _, tok := range rpn {
		if tok.kind == tokenIdent && !seen[tok.text] {
			seen[tok.text] = true
			f.names = append(f.names, tok.text)
		}
	}
	sort.Strings(f.names)
	return &f, nil
}

// Evaluate compiles and evaluates an expression in one step.
func Evaluate(src string, vars map[string]float64, allow Whitelist, opts ...Option) (float64, error) {
	f, err := Compile(src, allow, opts...)
	if err != nil {
		return 0, err
	}
	return f.Eval(vars)
}

// Vars returns the variable names the formula references, in sorted order.
func (f *Formula) Vars() []string {
	return append(([]string)(nil), f.names...)
}

// Source returns the expression the formula was compiled from.
func (f *Formula) Source() string {
	return f.src
}

// String returns the formula's postfix form, e.g. "2 3 4 * +".
func (f *Formula) String() string {
	var b strings.Builder
	for i, tok := range f.rpn {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.text)
	}
	return b.String()
}
