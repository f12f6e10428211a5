package ingest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney turns a venue's price text into a decimal. Both separator
// conventions are accepted: "1,234.56" and "1.234,56" parse to the same
// value. Currency markers and whitespace are stripped first.
func ParseMoney(text string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(text)
	for _, marker := range []string{"R$", "US$", "U$", "$"} {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	cleaned = strings.Join(strings.Fields(cleaned), "")

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty price text %q", ErrInvalidPrice, text)
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// The rightmost separator is the decimal point; the other one groups
		// thousands.
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		// A lone comma with one or two trailing digits is a decimal comma
		// ("81,00"); otherwise commas group thousands ("1,234").
		if strings.Count(cleaned, ",") == 1 && len(cleaned)-lastComma-1 <= 2 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case strings.Count(cleaned, ".") > 1:
		// Multiple dots can only be thousands grouping ("1.234.567").
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: non-positive price %q", ErrInvalidPrice, text)
	}
	return value, nil
}
