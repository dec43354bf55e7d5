// Package sanitize strips control characters from chunk text before it is
// embedded or stored.
package sanitize

import "strings"

// Clean removes all control characters in the ranges U+0000–U+001F and
// U+007F–U+009F. It is a pure function: total and idempotent.
func Clean(text string) string {
	return strings.Map(func(r rune) rune {
		if r <= 0x1F || (r >= 0x7F && r <= 0x9F) {
			return -1
		}
		return r
	}, text)
}
