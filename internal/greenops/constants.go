package greenops

// EPA greenhouse gas equivalency factors (2024 edition), in kg CO2e per unit.
// An equivalent is computed as kg_CO2e / factor.
const (
	// MilesDrivenFactor is kg CO2e per mile in an average passenger vehicle.
	MilesDrivenFactor = 0.192

	// SmartphoneChargeFactor is kg CO2e per full smartphone charge.
	SmartphoneChargeFactor = 0.00822

	// TreeSeedlingFactor is kg CO2e absorbed by one tree seedling grown for 10 years.
	TreeSeedlingFactor = 60.0

	// HomeDayFactor is kg CO2e per day of average US home electricity use.
	HomeDayFactor = 18.3
)

// Conversion factors to kilograms.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	TonsToKg   = 1000.0
	PoundsToKg = 0.453592
)

// Display thresholds.
const (
	// MinEquivalentKg is the smallest footprint that gets equivalents. Below
	// it the comparisons round to nothing meaningful.
	MinEquivalentKg = 0.1

	// TreeThresholdKg is the footprint from which tree seedlings and home-days
	// are added to the phone and mileage comparisons.
	TreeThresholdKg = 10.0

	// LargeNumberThreshold switches FormatLarge to "~X.X million".
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches FormatLarge to "~X.X billion".
	BillionThreshold = 1_000_000_000
)
