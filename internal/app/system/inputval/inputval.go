// Package inputval validates user-supplied field values at the API
// boundary. Normalization (lowercasing, folding) lives in the normalize
// package; this one only answers yes/no.
package inputval

import "strings"

// IsValidEmail reports whether s is an acceptable email address. The
// check is deliberately stricter than RFC 5322 parsing: display names
// ("Dina <dina@x.com>"), spaces, and dotted edge cases are rejected
// because the address is stored and mailed to verbatim. Single-label
// domains pass so development setups like admin@mailserver work.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)

	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') {
		return false
	}
	return validDotAtom(s[:at]) && validDotAtom(s[at+1:])
}

// validDotAtom rejects empty parts, whitespace, angle brackets, and dots
// at the edges or doubled up.
func validDotAtom(part string) bool {
	if part == "" {
		return false
	}
	if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") {
		return false
	}
	if strings.Contains(part, "..") {
		return false
	}
	return !strings.ContainsAny(part, " \t<>")
}

// IsValidPhone accepts the loose international formats the SPA sends:
// optional leading +, then 7 to 15 digits with spaces, dashes, dots, and
// parentheses ignored. Empty is not valid; phone fields that are optional
// should be checked only when set.
func IsValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")

	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
