// Package normalize provides input normalization helpers applied before
// values reach the stores. Emails are the natural key for accounts, so
// they are always lowercased and trimmed.
package normalize

import "strings"

// Email trims whitespace and lowercases the address. Empty or
// whitespace-only input normalizes to "".
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Phone trims surrounding whitespace. No format is enforced here;
// phone is free text in the data model.
func Phone(s string) string {
	return strings.TrimSpace(s)
}

// Handle trims whitespace and lowercases a provider handle
// (e.g., a GitHub login).
func Handle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Provider trims and lowercases an OAuth provider name.
func Provider(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
