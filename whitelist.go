package formula

import "sort"

// Whitelist is the set of variable names a formula may reference. A nil
// Whitelist permits no names.
type Whitelist map[string]struct{}

// Allow creates a whitelist of the given names.
func Allow(names ...string) Whitelist {
	w := make(Whitelist, len(names))
	for _, name := range names {
		w[name] = struct{}{}
	}
	return w
}

// Has returns whether name is permitted.
func (w Whitelist) Has(name string) bool {
	_, ok := w[name]
	return ok
}

// Names returns the permitted names in sorted order.
func (w Whitelist) Names() []string {
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validate checks that every identifier in toks is permitted. The first
// identifier that is not is the error.
func validate(toks []token, allow Whitelist) error {
	for _, tok := range toks {
		if tok.kind != tokenIdent {
			continue
		}
		if !allow.Has(tok.text) {
			return &UnknownVariableError{Col: tok.pos, Name: tok.text}
		}
	}
	return nil
}
