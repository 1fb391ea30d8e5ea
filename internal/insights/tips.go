package insights

//nolint:gochecknoglobals // Static tip catalogue keyed by category name.
var categoryTips = map[string][]string{
	"Transportation": {
		"Swap one short car trip a week for walking or cycling.",
		"Share rides: four people in one car cut each rider's footprint by 75%.",
		"Take the train instead of flying for trips under 500 km.",
	},
	"Food": {
		"Try one more plant-based meal each week.",
		"Buy local produce to trim transport emissions by about 10%.",
		"Swap beef for chicken or fish to more than halve a meal's footprint.",
	},
	"Home Energy": {
		"Switch to a green energy tariff to cut electricity emissions by 80%.",
		"Lower the thermostat by 1 °C to save around 10% on heating.",
		"Unplug idle electronics and switch to LED lighting.",
	},
	"Shopping": {
		"Buy secondhand: it carries a fraction of the footprint of new goods.",
		"Choose sustainably made products to cut their footprint by 30%.",
		"Repair electronics before replacing them.",
	},
}

//nolint:gochecknoglobals // Fallback tips when no category dominates.
var generalTips = []string{
	"Log activities every day to keep your streak and grow your plant.",
	"Set a daily target a little below your average and beat it.",
}

// Tips suggests reductions for the highest-emission category in breakdown.
// With no emissions recorded it returns general tips.
func Tips(breakdown []CategoryTotal) []string {
	for _, c := range breakdown {
		if c.CarbonKg <= 0 {
			continue
		}
		if tips, ok := categoryTips[c.CategoryName]; ok {
			return append([]string(nil), tips...)
		}
		return []string{"Most of your footprint comes from " + c.CategoryName + ". Look for a lower-carbon swap there."}
	}
	return append([]string(nil), generalTips...)
}
