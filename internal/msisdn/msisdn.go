// Package msisdn canonicalizes Indonesian phone numbers into
// international form (62xxxxxxxxxx) for quota lookups.
package msisdn

import (
	"strings"
	"unicode"
)

const (
	countryPrefix = "62"
	minDigits     = 10
	maxDigits     = 15
)

// Normalize validates free text as a phone number and returns the
// canonical international form. It returns false for anything that is
// not a phone number; callers feeding arbitrary chat text must treat
// that as "not a number" and stay silent.
func Normalize(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", false
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		switch r {
		case '(', ')', '.', '-':
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()
	s = strings.TrimPrefix(s, "+")
	if s == "" || !isDigits(s) {
		return "", false
	}

	switch {
	case s[0] == '0':
		s = countryPrefix + s[1:]
	case s[0] == '8':
		s = countryPrefix + s
	default:
		// already international, or a foreign number passed through as-is
	}

	if len(s) < minDigits || len(s) > maxDigits {
		return "", false
	}
	return s, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
