package report

import (
	"strconv"
	"strings"
)

// NormalizeDecimal parses a numeric string that may use a decimal comma.
// "17,50" and "17.50" both yield 17.5.
func NormalizeDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// normalizeDecimalString rewrites a decimal-comma numeric string to use a dot,
// preserving the original precision ("45,00" → "45.00").
func normalizeDecimalString(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}
