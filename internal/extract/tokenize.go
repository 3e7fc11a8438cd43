// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenize lower-cases text and splits it into word, number, and punctuation
// tokens in original order.
//
// A run of letters and digits is one token ("5kg", "m3"). A '.' or ',' between
// two digits stays inside the token ("2.5", "1,000"), as does a '-' or '\''
// between two letters or digits ("ready-mix"). Any other non-space rune is a
// token on its own. Compatibility forms are folded first (NFKC), so
// full-width digits become ASCII digits.
func Tokenize(text string) []string {
	runes := []rune(strings.ToLower(norm.NFKC.String(text)))

	var (
		tokens []string
		cur    []rune
	)
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case isWordRune(r):
			cur = append(cur, r)
		case unicode.IsSpace(r):
			flush()
		case joinsToken(runes, i):
			cur = append(cur, r)
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()

	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// joinsToken reports whether the separator at runes[i] sits inside a token.
func joinsToken(runes []rune, i int) bool {
	if i == 0 || i == len(runes)-1 {
		return false
	}
	prev, next := runes[i-1], runes[i+1]
	switch runes[i] {
	case '.', ',':
		return unicode.IsDigit(prev) && unicode.IsDigit(next)
	case '-', '\'':
		return isWordRune(prev) && isWordRune(next)
	}
	return false
}

// isNumeric reports whether tok starts with a decimal digit. It is a prefix
// test, not a parse: "5kg" and "2.5" are numeric, "m3" is not.
func isNumeric(tok string) bool {
	for _, r := range tok {
		return unicode.IsDigit(r)
	}
	return false
}
