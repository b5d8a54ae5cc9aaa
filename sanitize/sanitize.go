// Package sanitize filters externally supplied identifiers down to the
// character set that is safe to use as a storage key.
package sanitize

import "strings"

func safe(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' || r == '-'
}

// Clean strips every character outside [A-Za-z0-9_-]. It never fails; the
// result may be empty.
func Clean(input string) string {
	var sb strings.Builder
	sb.Grow(len(input))

	for _, r := range input {
		if safe(r) {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
