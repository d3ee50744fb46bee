package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TitleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "react.js" becomes "React.Js" and "kerja tim"
// becomes "Kerja Tim".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

// DisplayCaseSkill renders a normalized skill term for display: terms of up
// to 3 characters are treated as acronyms and upper-cased ("aws" -> "AWS"),
// longer terms are title-cased ("python" -> "Python").
func DisplayCaseSkill(term string) string {
	if utf8.RuneCountInString(term) > 3 {
		return TitleCase(term)
	}
	return strings.ToUpper(term)
}
