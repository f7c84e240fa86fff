package marking

import "unicode"

// foldRune casefolds and maps subscript digits U+2080..U+2089 onto ASCII
// digits so "CO₂" and "CO2" produce the same token.
func foldRune(r rune) rune {
	if r >= '₀' && r <= '₉' {
		return '0' + (r - '₀')
	}
	return unicode.ToLower(r)
}

// Tokenize canonicalizes s into comparison tokens: casefolded, sentence
// punctuation stripped, runs of whitespace collapsed. Characters that carry
// meaning in formula notation (parentheses, signs, arrows) are kept.
func Tokenize(s string) []string {
	var toks []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			toks = append(toks, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			flush()
		case r == '.' || r == ',' || r == ';':
			// stripped without breaking the token
		default:
			cur = append(cur, foldRune(r))
		}
	}
	flush()
	return toks
}

// TokenSet is Tokenize with set semantics. Empty or whitespace-only input
// yields an empty set.
func TokenSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, t := range Tokenize(s) {
		set[t] = struct{}{}
	}
	return set
}
