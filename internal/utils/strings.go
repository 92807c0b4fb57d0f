// Package utils holds small helpers shared by the transport and analytics
// layers.
package utils

import "strings"

// NormalizeSymbol upper-cases and trims a ticker symbol
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseSymbols splits a comma-separated list into normalized symbols,
// dropping blanks and repeats while keeping first-seen order.
// Returns nil when nothing remains.
func ParseSymbols(s string) []string {
	return NormalizeSymbols(strings.Split(s, ","))
}

// NormalizeSymbols normalizes each entry, dropping blanks and repeats
func NormalizeSymbols(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		sym := NormalizeSymbol(v)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
