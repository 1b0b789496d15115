package helpers

import "unicode/utf8"

// TruncateRunes cuts s to at most max runes without splitting a multi-byte
// character. max <= 0 disables truncation.
func TruncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
