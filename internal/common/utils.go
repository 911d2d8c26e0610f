package common

import "strings"

// HasAny reports whether s contains any of the substrings, ignoring case.
// Substrings are expected in lower case.
func HasAny(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
