package piicrypt

import "strings"

// Normalizer maps a value to the canonical form that is hashed for lookup.
// The encrypted copy always keeps the value as entered.
//
// Writers and query rewriting must use the same normalizer for a field,
// otherwise lookups silently miss.
type Normalizer func(string) string

// NormalizeEmail lower-cases and trims. It is the hashing input for emails.
//
// Example: " Alice@Example.COM " -> "alice@example.com"
var NormalizeEmail Normalizer = func(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone keeps ASCII digits only.
//
// Example: "+1 (555) 123-4567" -> "15551234567"
var NormalizePhone Normalizer = func(s string) string {
	var digits strings.Builder
	digits.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

// NormalizeTrim trims surrounding whitespace and preserves case.
var NormalizeTrim Normalizer = strings.TrimSpace

// NormalizeNone returns the input unchanged. Hash still trims.
var NormalizeNone Normalizer = func(s string) string {
	return s
}
