// ABOUTME: Text helpers shared by logging, CLI output and MCP responses
// ABOUTME: Excerpt shortens ticket text for diagnostics without splitting runes
package util

import "strings"

// Truncate shortens a string to maxLen runes, adding "..." if truncated
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// Excerpt collapses whitespace and truncates, for one-line log fields
func Excerpt(s string, maxLen int) string {
	return Truncate(strings.Join(strings.Fields(s), " "), maxLen)
}
