package common

import "strings"

// NormalizeUsername folds case and trims surrounding whitespace, so that
// "Alice " and "alice" are the same identity. Every entry point that accepts a
// username applies it.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
