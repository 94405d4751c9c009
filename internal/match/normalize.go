package match

import (
	"strings"
	"unicode"
)

// NormalizeKey folds a key or identifier to a comparable form: CamelCase is
// split, separators (_ - space) are dropped and everything is lower-cased.
// "firstName", "first_name" and "First-Name" all become "firstname".
func NormalizeKey(s string) string {
	return strings.Join(Tokenize(s), "")
}

// Tokenize splits an identifier into lower-cased words.
//   - "OrderID" -> [order id]
//   - "XMLParser" -> [xml parser]
//   - "first_name" -> [first name]
func Tokenize(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsToken reports a lower-to-upper transition, or the last capital of an
// acronym followed by a lower-case letter ("XMLParser" splits before P).
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
