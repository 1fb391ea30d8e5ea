package greenops

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// unitFactor returns the conversion factor to kilograms. Matching is
// case-insensitive and accepts a CO2e suffix.
func unitFactor(unit string) (float64, bool) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), "co2e") {
	case "g":
		return GramsToKg, true
	case "kg", "":
		return KgToKg, true
	case "t":
		return TonsToKg, true
	case "lb", "lbs":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts value in unit to kilograms. An empty unit means kg.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}

	factor, ok := unitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}

	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// ParseQuantity parses strings such as "12.5kg", "300 g" or "2 tCO2e" and
// returns the quantity in kilograms. A bare number is taken as kg.
func ParseQuantity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidQuantity
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsSpace(r)
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], s[split:]
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, ErrInvalidQuantity
	}
	return NormalizeToKg(value, unit)
}
