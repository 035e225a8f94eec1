// Package scapeid canonicalizes the names users type for scapes.
package scapeid

import "strings"

// Normalize lowercases name, turns underscores and spaces into dashes and
// drops a leading "scape" and a trailing "sim" marker.
func Normalize(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.Trim(normalized, "-")
	if normalized == "" {
		return ""
	}

	if trimmed := strings.TrimPrefix(normalized, "scape-"); trimmed != "" {
		normalized = trimmed
	}
	if trimmed := strings.TrimSuffix(normalized, "-sim"); trimmed != "" {
		normalized = trimmed
	}
	return strings.Trim(normalized, "-")
}

// Compact is Normalize without dashes, so "cartpolelite" and
// "cart-pole-lite" compare equal.
func Compact(name string) string {
	return strings.ReplaceAll(Normalize(name), "-", "")
}

// Match reports which of candidates name refers to. An exact normalized
// match wins over a compact one.
func Match(name string, candidates []string) (string, bool) {
	normalized := Normalize(name)
	if normalized == "" {
		return "", false
	}
	for _, candidate := range candidates {
		if Normalize(candidate) == normalized {
			return candidate, true
		}
	}
	compact := Compact(name)
	for _, candidate := range candidates {
		if Compact(candidate) == compact {
			return candidate, true
		}
	}
	return "", false
}
