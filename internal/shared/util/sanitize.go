package util

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	freeTextMax     = 500
	businessNameMax = 100
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeFreeText cleans user-entered prose before it can reach a prompt or
// a log line: HTML tags are removed, emoji and other symbols dropped,
// whitespace collapsed, and the result capped at 500 characters.
func SanitizeFreeText(s string) string {
	return clean(s, freeTextMax)
}

// SanitizeBusinessName cleans a business name the same way but with a
// tighter 100 character cap.
func SanitizeBusinessName(s string) string {
	return clean(s, businessNameMax)
}

func clean(s string, max int) string {
	s = htmlTagPattern.ReplaceAllString(s, " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r), unicode.IsPunct(r):
			b.WriteRune(r)
		case r == '+', r == '$', r == '=':
			b.WriteRune(r)
		}
	}

	out := strings.Join(strings.Fields(b.String()), " ")
	runes := []rune(out)
	if len(runes) > max {
		out = strings.TrimSpace(string(runes[:max]))
	}
	return out
}
