package catalog

import "strings"

// Tokens accepted as "yes" in the capacitado column. One fixed set for
// the whole loader instead of truthiness checks scattered inline.
var affirmativeTokens = map[string]struct{}{
	"sim":        {},
	"s":          {},
	"yes":        {},
	"y":          {},
	"1":          {},
	"true":       {},
	"verdadeiro": {},
	"ok":         {},
	"ativo":      {},
	"habilitado": {},
	"cap":        {},
	"capacitado": {},
}

// Afirmativo reports whether a free-text cell counts as affirmative,
// case-insensitively.
func Afirmativo(s string) bool {
	_, ok := affirmativeTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}
