package utils

import "strings"

// NormalizeAddress collapses whitespace and case so that "22  Market st"
// and "22 Market St" share one cache key.
func NormalizeAddress(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// NormalizeHeader lowercases a spreadsheet column name and drops spaces,
// dashes and underscores: "Driver ID" -> "driverid".
func NormalizeHeader(raw string) string {
	normalized := strings.TrimSpace(raw)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, "_", "")
	normalized = strings.ToLower(normalized)
	return normalized
}
