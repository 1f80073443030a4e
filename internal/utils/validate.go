package utils

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidEmail reports whether s is a plain, syntactically valid address.
// Display-name forms like "Bob <bob@x.com>" are rejected.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// ValidName reports whether a display name has at least min characters
// after trimming surrounding whitespace.
func ValidName(name string, min int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= min
}

// ValidPassword checks the configured password policy: at least minLen
// characters and, when requireAlnum is set, at least one letter and one
// digit. The policy is a configuration decision, not a constant.
func ValidPassword(pw string, minLen int, requireAlnum bool) bool {
	if utf8.RuneCountInString(pw) < minLen {
		return false
	}
	if !requireAlnum {
		return true
	}
	var hasLetter, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
