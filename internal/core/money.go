// Package core holds the domain types of the tracker and the exact
// money arithmetic shared by the parser and the aggregator.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmountMinor converts a free-form decimal string into minor units.
//
// The input may contain arbitrary whitespace variants (including
// non-breaking and narrow spaces) as thousands separators and either '.'
// or ',' as the decimal separator. The fractional part is padded or
// truncated to exactly two digits; there is no rounding, because these
// are currency amounts and the conversion must be exact.
//
// Examples:
//
//	ParseAmountMinor("1 234,5") -> 123450
//	ParseAmountMinor("1234.5")  -> 123450
//	ParseAmountMinor("99")      -> 9900
func ParseAmountMinor(s string) (int64, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(clean, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	whole := parts[0]
	frac := "00"
	if len(parts) == 2 {
		// Pad or truncate to exactly two digits: "5" means 50 kopecks.
		frac = (parts[1] + "00")[:2]
	}
	if whole == "" {
		whole = "0"
	}
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}

	wv, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxWhole = (1<<63 - 1) / MinorUnitScale
	if wv > maxWhole {
		return 0, ErrInvalidAmount
	}
	fv, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return wv*MinorUnitScale + fv, nil
}
