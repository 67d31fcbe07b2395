package nlp

import (
	"strings"
	"unicode"
)

// Normalize lower-cases the input, maps every non-alphanumeric rune to a
// space and collapses runs of spaces, so that "Node.js / CI-CD" becomes
// "node js ci cd".
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}

	return b.String()
}

// ContainsPhrase reports whether the phrase occurs in the text on word
// boundaries after both are normalized. A multi-word phrase must appear as a
// contiguous token sequence.
func ContainsPhrase(text, phrase string) bool {
	needle := Normalize(phrase)
	if needle == "" {
		return false
	}
	haystack := " " + Normalize(text) + " "
	return strings.Contains(haystack, " "+needle+" ")
}

// Tokens splits the normalized form of the input into individual tokens.
func Tokens(s string) []string {
	norm := Normalize(s)
	if norm == "" {
		return nil
	}
	return strings.Fields(norm)
}
