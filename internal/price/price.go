package price

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Patterns are tried in priority order: symbol-marked amounts first,
// currency-code-marked amounts next, a bare two-decimal amount last.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)€\s*(\d+[.,]?\d*)`),
	regexp.MustCompile(`(?i)(\d+[.,]?\d*)\s*€`),
	regexp.MustCompile(`(?i)EUR\s*(\d+[.,]?\d*)`),
	regexp.MustCompile(`(?i)(\d+[.,]?\d*)\s*EUR`),
	regexp.MustCompile(`(\d+[.,]\d{2})`),
}

// Extract parses free-form text into a normalized "€12.50" style price.
// Returns false if the text is empty or no pattern matches.
//
// Spaces are stripped and commas converted to decimal points before
// matching, so "1 234,56" becomes "1234.56". Prices are not expected to
// carry thousands separators distinct from the decimal marker.
func Extract(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, ",", ".")

	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
		if err != nil {
			// Malformed capture, try the next pattern.
			continue
		}

		return fmt.Sprintf("€%.2f", value), true
	}

	return "", false
}
