// Package footprint estimates the carbon footprint (kg CO2e) and the reward
// points of a single logged activity.
//
// Every function in this package is pure. Identical inputs always produce
// identical outputs, nothing is shared between calls, and nothing fails:
// malformed input is resolved by defaulting and reported through ParseReport.
package footprint

import (
	"fmt"
	"strings"
)

// Category is the closed set of activity groupings understood by the
// calculator. Any name outside the known set is CategoryCustom.
type Category int

const (
	// CategoryCustom covers user-defined categories. The footprint is the
	// "amount" detail taken as kg CO2e.
	CategoryCustom Category = iota

	// CategoryTransportation covers trips by car, bus, train, plane, bike or on foot.
	CategoryTransportation

	// CategoryFood covers meals.
	CategoryFood

	// CategoryHomeEnergy covers household energy consumption.
	CategoryHomeEnergy

	// CategoryShopping covers purchases.
	CategoryShopping
)

// Human-readable category names as stored alongside activity records.
const (
	NameTransportation = "Transportation"
	NameFood           = "Food"
	NameHomeEnergy     = "Home Energy"
	NameShopping       = "Shopping"
	NameCustom         = "Custom"
)

// String returns the human-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryTransportation:
		return NameTransportation
	case CategoryFood:
		return NameFood
	case CategoryHomeEnergy:
		return NameHomeEnergy
	case CategoryShopping:
		return NameShopping
	case CategoryCustom:
		return NameCustom
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// ParseCategory maps a human-readable category name to a Category.
// Matching ignores surrounding whitespace and case. Unrecognized names,
// including the empty string, map to CategoryCustom.
func ParseCategory(name string) Category {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "transportation":
		return CategoryTransportation
	case "food":
		return CategoryFood
	case "home energy":
		return CategoryHomeEnergy
	case "shopping":
		return CategoryShopping
	default:
		return CategoryCustom
	}
}

// KnownCategories returns the built-in categories in display order.
func KnownCategories() []Category {
	return []Category{CategoryTransportation, CategoryFood, CategoryHomeEnergy, CategoryShopping}
}
