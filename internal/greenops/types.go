// Package greenops turns activity footprints into everyday comparisons
// ("like driving 12 miles") and formats carbon quantities for display.
package greenops

// EquivalencyType identifies one kind of everyday comparison.
type EquivalencyType int

const (
	// EquivalencyMilesDriven compares against miles in an average car.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged compares against full phone charges.
	EquivalencySmartphonesCharged

	// EquivalencyTreeSeedlings compares against seedlings grown for ten years.
	EquivalencyTreeSeedlings

	// EquivalencyHomeDays compares against days of home electricity.
	EquivalencyHomeDays
)

// String returns the short label used in compact output.
func (t EquivalencyType) String() string {
	switch t {
	case EquivalencyMilesDriven:
		return "mi"
	case EquivalencySmartphonesCharged:
		return "phones"
	case EquivalencyTreeSeedlings:
		return "trees"
	case EquivalencyHomeDays:
		return "home-days"
	default:
		return "unknown"
	}
}

// Equivalent is one computed comparison.
type Equivalent struct {
	Type           EquivalencyType `json:"-"`
	Kind           string          `json:"kind"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted"`
	Label          string          `json:"label"`
}

// Summary holds every comparison for a single footprint.
type Summary struct {
	InputKg     float64      `json:"input_kg"`
	Equivalents []Equivalent `json:"equivalents,omitempty"`
	DisplayText string       `json:"display_text,omitempty"`
	CompactText string       `json:"compact_text,omitempty"`
	IsEmpty     bool         `json:"-"`
}
