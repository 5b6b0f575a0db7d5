package baaskit

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^010-\d{4}-\d{4}$`)

// ValidatePhone reports whether s is a mobile number in 010-XXXX-XXXX form.
func ValidatePhone(s string) bool {
	return phonePattern.MatchString(s)
}

// FormatPhone rewrites a mobile number to 010-XXXX-XXXX form.
//
// Separators (spaces, dashes, dots, parentheses) are stripped first. If
// what remains is exactly 11 digits starting with 010 the dashed form is
// returned; otherwise s is returned unchanged. FormatPhone is idempotent.
func FormatPhone(s string) string {
	digits := stripPhoneSeparators(s)
	if len(digits) != 11 || !strings.HasPrefix(digits, "010") {
		return s
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return s
		}
	}
	return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
}

func stripPhoneSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
