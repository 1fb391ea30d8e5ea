package greenops

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
)

// Equivalents computes everyday comparisons for kg CO2e.
//
// Footprints below MinEquivalentKg return an empty Summary. Phones and miles
// are always included; tree seedlings and home-days join them from
// TreeThresholdKg upward.
func Equivalents(kg float64) (Summary, error) {
	if math.IsInf(kg, 0) || math.IsNaN(kg) {
		return Summary{IsEmpty: true}, ErrCalculationOverflow
	}
	if kg < 0 {
		return Summary{IsEmpty: true}, ErrNegativeValue
	}
	if kg < MinEquivalentKg {
		return Summary{InputKg: kg, IsEmpty: true}, nil
	}

	items := []Equivalent{
		newEquivalent(EquivalencyMilesDriven, kg/MilesDrivenFactor, "miles driven"),
		newEquivalent(EquivalencySmartphonesCharged, kg/SmartphoneChargeFactor, "smartphones charged"),
	}
	if kg >= TreeThresholdKg {
		items = append(items,
			newEquivalent(EquivalencyTreeSeedlings, kg/TreeSeedlingFactor, "tree seedlings grown for 10 years"),
			newEquivalent(EquivalencyHomeDays, kg/HomeDayFactor, "days of home electricity"),
		)
	}

	log.Debug().
		Str("component", "greenops").
		Float64("input_kg", kg).
		Int("equivalents", len(items)).
		Msg("computed carbon equivalents")

	return Summary{
		InputKg:     kg,
		Equivalents: items,
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
			items[0].FormattedValue, items[1].FormattedValue),
		CompactText: compactText(items),
	}, nil
}

func newEquivalent(t EquivalencyType, v float64, label string) Equivalent {
	return Equivalent{
		Type:           t,
		Kind:           t.String(),
		Value:          v,
		FormattedValue: formatEquivalent(v),
		Label:          label,
	}
}

// formatEquivalent keeps one decimal for small comparisons so that 0.4 trees
// does not print as 0.
func formatEquivalent(v float64) string {
	if v < 10 {
		return FormatFloat(v, 1)
	}
	return FormatLarge(v)
}

func compactText(items []Equivalent) string {
	parts := make([]string, 0, len(items))
	for _, e := range items {
		parts = append(parts, e.FormattedValue+" "+e.Kind)
	}
	return "(≈ " + strings.Join(parts, ", ") + ")"
}
