package adapter

import (
	"strings"
	"unicode"
)

// Words splits an identifier on separators (- _ . : space) and camel humps.
// "PointerMove" -> [Pointer Move], "XMLLoad" -> [XML Load], "key_up" -> [key up].
func Words(s string) []string {
	runes := []rune(s)
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if r == '-' || r == '_' || r == '.' || r == ':' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// CamelCase joins words as lowerCamel: "pointer-move" -> "pointerMove".
// An already camel-cased input keeps its humps.
func CamelCase(s string) string {
	words := Words(s)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(UpperFirst(strings.ToLower(w)))
	}
	return b.String()
}

// PascalCase joins words as UpperCamel: "pointer-move" -> "PointerMove".
func PascalCase(s string) string {
	return UpperFirst(CamelCase(s))
}

// DashCase joins lowercased words with dashes: "PointerMove" -> "pointer-move".
func DashCase(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "-")
}

// UpperFirst uppercases the first rune.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// LowerFirst lowercases the first rune.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
