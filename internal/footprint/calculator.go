package footprint

import "math"

// Result bundles everything computed for one activity.
type Result struct {
	Category Category    `json:"-"`
	Details  Details     `json:"details"`
	CarbonKg float64     `json:"carbon_kg"`
	Points   int         `json:"points"`
	Report   ParseReport `json:"report"`
}

// Calculate parses raw details for the named category and computes both the
// footprint and the points. activityType is free text kept by callers for
// their own records; no formula consults it.
func Calculate(category, activityType string, raw map[string]any) Result {
	cat := ParseCategory(category)
	d, report := Parse(cat, raw)
	kg := Footprint(d)

	return Result{
		Category: cat,
		Details:  d,
		CarbonKg: kg,
		Points:   Points(d, kg),
		Report:   report,
	}
}

// ComputeFootprint returns the kg CO2e of an activity described by raw form
// values, rounded to two decimal places.
func ComputeFootprint(category, activityType string, details map[string]any) float64 {
	d, _ := Parse(ParseCategory(category), details)
	return Footprint(d)
}

// ComputePoints returns the reward points of an activity described by raw
// form values. carbonKg is the footprint previously computed for the same
// activity; no current formula uses it.
func ComputePoints(category, activityType string, details map[string]any, carbonKg float64) int {
	d, _ := Parse(ParseCategory(category), details)
	return Points(d, carbonKg)
}

// Footprint returns the kg CO2e for d rounded to two decimal places.
// The result is never negative and never NaN.
func Footprint(d Details) float64 {
	var kg float64

	switch v := d.(type) {
	case TransportDetails:
		kg = transportFootprint(v)
	case FoodDetails:
		kg = foodFootprint(v)
	case EnergyDetails:
		kg = energyFootprint(v)
	case ShoppingDetails:
		kg = shoppingFootprint(v)
	case CustomDetails:
		kg = v.Amount
	default:
		kg = 0
	}

	return RoundKg(kg)
}

// Points returns the reward points for d, never less than MinPoints.
func Points(d Details, carbonKg float64) int {
	var pts float64

	switch v := d.(type) {
	case TransportDetails:
		pts = transportPoints(v)
	case FoodDetails:
		pts = foodPoints(v)
	case EnergyDetails:
		pts = energyPoints(v)
	case ShoppingDetails:
		pts = shoppingPoints(v)
	case CustomDetails:
		pts = CustomPoints
	default:
		pts = CustomPoints
	}

	return clampPoints(pts)
}

// RoundKg rounds half away from zero to two decimal places. Negative,
// NaN and infinite values become 0. Values too large to scale have no
// fractional part and are returned as is.
func RoundKg(kg float64) float64 {
	if math.IsNaN(kg) || math.IsInf(kg, 0) || kg <= 0 {
		return 0
	}
	const scale = 100
	scaled := kg * scale
	if math.IsInf(scaled, 0) {
		return kg
	}
	return math.Round(scaled) / scale
}

func clampPoints(p float64) int {
	r := math.Round(p)
	if math.IsNaN(r) || r < MinPoints {
		return MinPoints
	}
	if r > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(r)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func transportFootprint(d TransportDetails) float64 {
	mode := d.Mode.orDefault()
	kg := nonNegative(d.DistanceKm) * transportFactors[mode]

	// Carpooling splits the car's emissions between riders.
	if mode == ModeCar && d.riders() > 1 {
		kg /= float64(d.riders())
	}
	return kg
}

func transportPoints(d TransportDetails) float64 {
	switch mode := d.Mode.orDefault(); {
	case mode == ModeBike || mode == ModeWalk:
		return nonNegative(d.DistanceKm) * ActivePointsPerKm
	case mode == ModeBus || mode == ModeTrain:
		return PublicTransportPoints
	case mode == ModeCar && d.riders() > 1:
		return float64(SoloCarPoints + (d.riders()-1)*CarpoolPointsPerRider)
	case mode == ModePlane:
		return PlanePoints
	default:
		return SoloCarPoints
	}
}

func foodFootprint(d FoodDetails) float64 {
	kg := mealFactors[d.MealType.orDefault()] * float64(d.servings())
	if d.LocalSourced {
		kg *= LocalSourcedFactor
	}
	if d.Organic {
		kg *= OrganicFactor
	}
	return kg
}

func foodPoints(d FoodDetails) float64 {
	pts := mealPoints[d.MealType.orDefault()]
	if d.LocalSourced {
		pts += LocalSourcedBonus
	}
	if d.Organic {
		pts += OrganicBonus
	}
	return pts
}

func energyFootprint(d EnergyDetails) float64 {
	kg := nonNegative(d.Amount) * energyFactors[d.EnergyType.orDefault()]
	if d.GreenEnergy {
		kg *= GreenEnergyFactor
	}
	return kg
}

func energyPoints(d EnergyDetails) float64 {
	switch {
	case d.EnergyType.orDefault() == EnergyRenewable:
		return RenewablePoints
	case d.GreenEnergy:
		return GreenEnergyPoints
	default:
		return BaseEnergyPoints
	}
}

func shoppingFootprint(d ShoppingDetails) float64 {
	kg := nonNegative(d.AmountSpent) * productFactors[d.ProductType.orDefault()]
	if d.Sustainable {
		kg *= SustainableFactor
	}
	return kg
}

func shoppingPoints(d ShoppingDetails) float64 {
	switch {
	case d.ProductType.orDefault() == ProductSecondhand:
		return SecondhandPoints
	case d.Sustainable:
		return SustainablePoints
	default:
		return BaseShoppingPoints
	}
}
