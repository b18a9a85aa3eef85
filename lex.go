package formula

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

type token struct {
	kind tokenKind
	// op is the operator for tokenOp.
	op opKind
	// num is the value of a tokenNum.
	num float64
	// text is the source text of the token.
	text string
	// pos is the 1-based rune column of the first rune of the token.
	pos int
}

func (t token) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenNum is a decimal literal.
	tokenNum
	// tokenIdent is a variable name.
	tokenIdent
	// tokenOp is a binary operator.
	tokenOp
	// tokenOpen is (.
	tokenOpen
	// tokenClose is ).
	tokenClose
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

type lexer struct {
	src []rune
	// off is the index of the next rune to scan.
	off int
}

// tokenize scans an entire expression. Blank input is an EmptyExpressionError
// rather than an empty token list.
func tokenize(src string) ([]token, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &EmptyExpressionError{Col: 1}
	}
	l := lexer{src: []rune(src)}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenNone {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// next scans the next token. At the end of input, the result has kind
// tokenNone.
func (l *lexer) next() (token, error) {
	for l.off < len(l.src) && unicode.IsSpace(l.src[l.off]) {
		l.off++
	}
	if l.off >= len(l.src) {
		return token{}, nil
	}
	tok := token{pos: l.off + 1}
	r := l.src[l.off]
	switch {
	case isDigit(r):
		tok.kind = tokenNum
		tok.text = l.scanNum()
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			// scanNum only accepts literals ParseFloat understands.
			panic("formula: unparsable number " + strconv.Quote(tok.text) + ": " + err.Error())
		}
		// Out of range literals are already ±Inf or 0.
		tok.num = v
	case r == '_', unicode.IsLetter(r):
		tok.kind = tokenIdent
		tok.text = l.scanIdent()
	case r == '(':
		tok.kind = tokenOpen
		tok.text = "("
		l.off++
	case r == ')':
		tok.kind = tokenClose
		tok.text = ")"
		l.off++
	default:
		op, ok := opFor(r)
		if !ok {
			return tok, &SyntaxError{Col: tok.pos, Char: r}
		}
		tok.kind = tokenOp
		tok.op = op
		tok.text = string(r)
		l.off++
	}
	return tok, nil
}

// peek returns the rune k places past the next one, or -1 past the end.
func (l *lexer) peek(k int) rune {
	if l.off+k < len(l.src) {
		return l.src[l.off+k]
	}
	return -1
}

func (l *lexer) digits() {
	for isDigit(l.peek(0)) {
		l.off++
	}
}

// scanNum scans digits [. digits] [e [sign] digits]. A dot or exponent marker
// without the digits it needs is left for the next token.
func (l *lexer) scanNum() string {
	start := l.off
	l.digits()
	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		l.off++
		l.digits()
	}
	if r := l.peek(0); r == 'e' || r == 'E' {
		k := 1
		if s := l.peek(1); s == '+' || s == '-' {
			k = 2
		}
		if isDigit(l.peek(k)) {
			l.off += k
			l.digits()
		}
	}
	return string(l.src[start:l.off])
}

func (l *lexer) scanIdent() string {
	start := l.off
	for l.off < len(l.src) {
		r := l.src[l.off]
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.off++
	}
	return string(l.src[start:l.off])
}

// isDigit reports whether r is an ASCII digit. Other Unicode digits may appear
// in identifiers but never in numbers.
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
