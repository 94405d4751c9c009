package naming

import (
	"go/token"
	"strings"
	"unicode"

	"codec-generator/internal/common"
)

// Param converts a field name into a parameter identifier that is never a Go keyword.
func Param(fieldName string) string {
	name := common.LowerFirst(fieldName)
	if token.IsKeyword(name) {
		return name + "_"
	}

	return name
}

// initialisms are words Go writes in a single case.
var initialisms = map[string]bool{
	"API": true, "HTML": true, "HTTP": true, "ID": true, "IP": true,
	"JSON": true, "SQL": true, "TTL": true, "UID": true, "URI": true,
	"URL": true, "UUID": true, "XML": true,
}

// Field converts a field name into an exported Go field name, writing
// initialisms in upper case: "id" -> "ID", "userId" -> "UserID",
// "urlPath" -> "URLPath".
func Field(name string) string {
	var sb strings.Builder

	for _, word := range words(name) {
		if up := strings.ToUpper(word); initialisms[up] {
			sb.WriteString(up)
			continue
		}

		sb.WriteString(common.UpperFirst(word))
	}

	return sb.String()
}

// words splits a camelCase identifier before each upper-case rune that
// follows a lower-case rune or digit. Underscores stay with the next word.
func words(name string) []string {
	var (
		out   []string
		start int
		prev  rune
	)

	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			out = append(out, name[start:i])
			start = i
		}

		prev = r
	}

	if start < len(name) {
		out = append(out, name[start:])
	}

	return out
}

// Joined concatenates segments in lowerCamelCase: ["ro", "duh"] -> "roDuh".
// Non-identifier runes are dropped so any external key can seed a variable name.
func Joined(segments []string) string {
	var sb strings.Builder

	for _, seg := range segments {
		seg = identRunes(seg)
		if seg == "" {
			continue
		}

		if sb.Len() == 0 {
			sb.WriteString(common.LowerFirst(seg))
			continue
		}

		sb.WriteString(common.UpperFirst(seg))
	}

	return sb.String()
}

// ScopeVar returns the variable name used for the scope at segments.
// The root scope is "container"; ["ro", "duh"] becomes "roDuhContainer".
func ScopeVar(segments []string) string {
	joined := Joined(segments)
	if joined == "" {
		return "container"
	}

	return joined + "Container"
}

func identRunes(s string) string {
	var sb strings.Builder

	for _, r := range s {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9' && sb.Len() > 0) {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
