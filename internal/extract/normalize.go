package extract

import "strings"

// Normalize lower-cases text and collapses whitespace runs to single
// spaces, trimming the ends. Every indicator comparison goes through
// this so stock-text matching is case- and whitespace-insensitive.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
