package normalization

import "strings"

// ParseInputString lowercases and trims user-supplied text so lookups and
// comparisons (emails, company names, industries) are case-insensitive.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// CleanDisplayString trims without lowercasing, for values shown back to the
// user as entered.
func CleanDisplayString(input string) string {
	return strings.TrimSpace(input)
}
