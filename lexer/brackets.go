package lexer

import "unicode/utf8"

// ValidPair reports whether close is the matching closing character for the
// opening token with raw text openRaw. Because prefix clusters fold into the
// front of an open token, the actual bracket is the last rune of openRaw,
// not the first: ValidPair("'(", ')') is true.
func ValidPair(openRaw string, close rune) bool {
	open, size := utf8.DecodeLastRuneInString(openRaw)
	if size == 0 {
		return false
	}
	switch open {
	case '(':
		return close == ')'
	case '[':
		return close == ']'
	case '{':
		return close == '}'
	case '"':
		return close == '"'
	}
	return false
}
