package scr

import (
	"strconv"
	"strings"
)

// ParseBrazilianNumber converts a Brazilian-formatted decimal string
// ("1.234,56") to a float. The period is always the thousands separator and
// the comma the decimal separator; this means an already anglicized input like
// "1234.56" parses as 123456. Inherited behavior, kept as-is.
// Anything unparsable becomes 0.0, never an error.
func ParseBrazilianNumber(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0.0
	}
	return value
}
