package ui

import "regexp"

var sgrPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI drops color escapes so tests can compare plain text.
func stripANSI(s string) string {
	return sgrPattern.ReplaceAllString(s, "")
}
