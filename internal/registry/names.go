package registry

import (
	"strings"
	"unicode"
)

// DisplayName converts a type key into its human-readable form: separators
// become spaces, each word is capitalized, and a space is inserted wherever
// an upper-case rune follows a lower-case one ("BitCrusher" -> "Bit Crusher").
func DisplayName(typeKey string) string {
	spaced := strings.NewReplacer("_", " ", "-", " ").Replace(typeKey)

	var b strings.Builder
	prev := rune(0)
	for _, r := range spaced {
		if prev != 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// DisplayCategory formats a folder name as a category label: separators
// become spaces and each word is title-cased.
func DisplayCategory(folder string) string {
	spaced := strings.NewReplacer("_", " ", "-", " ").Replace(folder)
	words := strings.Fields(spaced)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
