package footprint

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_ReferenceScenarios(t *testing.T) {
	tests := []struct {
		name       string
		category   string
		details    map[string]any
		wantKg     float64
		wantPoints int
	}{
		{
			name:       "solo car 100km",
			category:   "Transportation",
			details:    map[string]any{"mode": "car", "distance": 100, "passengers": 1},
			wantKg:     19.2,
			wantPoints: 10,
		},
		{
			name:       "carpool of four 100km",
			category:   "Transportation",
			details:    map[string]any{"mode": "car", "distance": 100, "passengers": 4},
			wantKg:     4.8,
			wantPoints: 25,
		},
		{
			name:       "bike 20km",
			category:   "Transportation",
			details:    map[string]any{"mode": "bike", "distance": 20},
			wantKg:     0,
			wantPoints: 40,
		},
		{
			name:     "local organic vegan two servings",
			category: "Food",
			details: map[string]any{
				"meal_type": "vegan", "servings": 2, "local_sourced": true, "organic": true,
			},
			wantKg:     0.86, // 0.5 * 2 * 0.9 * 0.95 = 0.855
			wantPoints: 35,
		},
		{
			name:       "renewable with green flag",
			category:   "Home Energy",
			details:    map[string]any{"energy_type": "renewable", "amount": 50, "green_energy": true},
			wantKg:     0.25,
			wantPoints: 25,
		},
		{
			name:       "secondhand shopping",
			category:   "Shopping",
			details:    map[string]any{"product_type": "secondhand", "amount_spent": 40, "sustainable": false},
			wantKg:     4.0,
			wantPoints: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.category, "test activity", tt.details)
			assert.Equal(t, tt.wantKg, got.CarbonKg)
			assert.Equal(t, tt.wantPoints, got.Points)

			assert.Equal(t, tt.wantKg, ComputeFootprint(tt.category, "test activity", tt.details))
			assert.Equal(t, tt.wantPoints, ComputePoints(tt.category, "test activity", tt.details, got.CarbonKg))
		})
	}
}

func TestFootprint_Transportation(t *testing.T) {
	tests := []struct {
		name    string
		details TransportDetails
		want    float64
	}{
		{"bus", TransportDetails{Mode: ModeBus, DistanceKm: 10, Passengers: 1}, 1.05},
		{"train", TransportDetails{Mode: ModeTrain, DistanceKm: 100, Passengers: 1}, 4.1},
		{"plane", TransportDetails{Mode: ModePlane, DistanceKm: 1000, Passengers: 1}, 255},
		{"walk", TransportDetails{Mode: ModeWalk, DistanceKm: 5, Passengers: 1}, 0},
		{"passengers ignored outside car", TransportDetails{Mode: ModeBus, DistanceKm: 10, Passengers: 5}, 1.05},
		{"zero passengers treated as one", TransportDetails{Mode: ModeCar, DistanceKm: 10}, 1.92},
		{"invalid mode falls back to car", TransportDetails{Mode: "hovercraft", DistanceKm: 10, Passengers: 1}, 1.92},
		{"negative distance clamps", TransportDetails{Mode: ModeCar, DistanceKm: -50, Passengers: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Footprint(tt.details), 1e-9)
		})
	}
}

func TestFootprint_Food(t *testing.T) {
	tests := []struct {
		name    string
		details FoodDetails
		want    float64
	}{
		{"meat_high plain", FoodDetails{MealType: MealMeatHigh, Servings: 1}, 7},
		{"meat_low local", FoodDetails{MealType: MealMeatLow, Servings: 1, LocalSourced: true}, 3.15},
		{"meat_high organic three servings", FoodDetails{MealType: MealMeatHigh, Servings: 3, Organic: true}, 19.95},
		{"vegetarian", FoodDetails{MealType: MealVegetarian, Servings: 2}, 2.4},
		{"pescatarian", FoodDetails{MealType: MealPescatarian, Servings: 1}, 2},
		{"zero servings treated as one", FoodDetails{MealType: MealVegan}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Footprint(tt.details), 1e-9)
		})
	}
}

func TestFootprint_EnergyAndShopping(t *testing.T) {
	tests := []struct {
		name    string
		details Details
		want    float64
	}{
		{"electricity", EnergyDetails{EnergyType: EnergyElectricity, Amount: 100}, 23.3},
		{"electricity green", EnergyDetails{EnergyType: EnergyElectricity, Amount: 100, GreenEnergy: true}, 4.66},
		{"natural gas", EnergyDetails{EnergyType: EnergyNaturalGas, Amount: 10}, 1.84},
		{"heating oil", EnergyDetails{EnergyType: EnergyHeatingOil, Amount: 10}, 2.68},
		{"clothing", ShoppingDetails{ProductType: ProductClothing, AmountSpent: 100}, 50},
		{"clothing sustainable", ShoppingDetails{ProductType: ProductClothing, AmountSpent: 100, Sustainable: true}, 35},
		{"electronics", ShoppingDetails{ProductType: ProductElectronics, AmountSpent: 200}, 140},
		{"household", ShoppingDetails{ProductType: ProductHousehold, AmountSpent: 10}, 3},
		{"custom amount", CustomDetails{Amount: 12.345}, 12.35},
		{"nil details", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Footprint(tt.details), 1e-9)
		})
	}
}

func TestPoints_Branches(t *testing.T) {
	tests := []struct {
		name    string
		details Details
		want    int
	}{
		{"walk 0km hits floor", TransportDetails{Mode: ModeWalk, Passengers: 1}, 1},
		{"walk 2.3km rounds", TransportDetails{Mode: ModeWalk, DistanceKm: 2.3, Passengers: 1}, 5},
		{"bus flat", TransportDetails{Mode: ModeBus, DistanceKm: 300, Passengers: 1}, 15},
		{"train flat", TransportDetails{Mode: ModeTrain, DistanceKm: 1, Passengers: 1}, 15},
		{"plane flat", TransportDetails{Mode: ModePlane, DistanceKm: 900, Passengers: 3}, 5},
		{"car two riders", TransportDetails{Mode: ModeCar, DistanceKm: 10, Passengers: 2}, 15},
		{"vegan plain", FoodDetails{MealType: MealVegan, Servings: 1}, 25},
		{"meat_high local", FoodDetails{MealType: MealMeatHigh, Servings: 1, LocalSourced: true}, 10},
		{"pescatarian organic", FoodDetails{MealType: MealPescatarian, Servings: 4, Organic: true}, 20},
		{"renewable", EnergyDetails{EnergyType: EnergyRenewable}, 25},
		{"green electricity", EnergyDetails{EnergyType: EnergyElectricity, GreenEnergy: true}, 20},
		{"plain gas", EnergyDetails{EnergyType: EnergyNaturalGas, Amount: 5}, 10},
		{"sustainable clothing", ShoppingDetails{ProductType: ProductClothing, Sustainable: true}, 15},
		{"secondhand beats sustainable", ShoppingDetails{ProductType: ProductSecondhand, Sustainable: true}, 20},
		{"plain electronics", ShoppingDetails{ProductType: ProductElectronics}, 5},
		{"custom", CustomDetails{Amount: 999}, 5},
		{"nil", nil, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Points(tt.details, 0))
		})
	}
}

func TestComputeFootprint_CustomCategory(t *testing.T) {
	assert.Equal(t, 3.5, ComputeFootprint("Gardening", "compost", map[string]any{"amount": "3.5"}))
	assert.Equal(t, 0.0, ComputeFootprint("Gardening", "compost", map[string]any{"amount": "lots"}))
	assert.Equal(t, 0.0, ComputeFootprint("", "", nil))
	assert.Equal(t, CustomPoints, ComputePoints("Gardening", "compost", map[string]any{"amount": 100}, 100))
}

func TestComputeFootprint_UnknownEnumNeverNaN(t *testing.T) {
	got := Calculate("Transportation", "teleport", map[string]any{"mode": "teleporter", "distance": 10})
	require.False(t, math.IsNaN(got.CarbonKg))
	assert.Equal(t, 1.92, got.CarbonKg, "unknown mode falls back to car")
	assert.Equal(t, []string{FieldMode}, got.Report.Unknown)
	assert.Equal(t, 10, got.Points)
}

func TestProperties(t *testing.T) {
	categories := []string{"Transportation", "Food", "Home Energy", "Shopping", "Other"}
	inputs := []map[string]any{
		{},
		{"mode": "plane", "distance": 1234.5678, "passengers": 3},
		{"mode": "car", "distance": "77.777", "passengers": "3"},
		{"meal_type": "meat_high", "servings": 7, "local_sourced": true, "organic": "yes"},
		{"energy_type": "heating_oil", "amount": 333.333, "green_energy": "on"},
		{"product_type": "electronics", "amount_spent": 19.99, "sustainable": 1},
		{"amount": 0.005},
		{"amount": 1e9, "distance": 1e9, "amount_spent": 1e9},
		{"mode": "bike", "distance": -3},
	}

	for _, category := range categories {
		for _, raw := range inputs {
			first := Calculate(category, "x", raw)
			second := Calculate(category, "x", raw)

			assert.Equal(t, first, second, "calculation must be pure")
			assert.GreaterOrEqual(t, first.CarbonKg, 0.0, "footprint must be non-negative")
			assert.GreaterOrEqual(t, first.Points, MinPoints, "points floor")

			scaled := first.CarbonKg * 100
			assert.InDelta(t, math.Round(scaled), scaled, 1e-6*math.Max(1, scaled),
				"footprint has at most two decimal places")
		}
	}
}

func TestRoundKg(t *testing.T) {
	assert.Equal(t, 0.86, RoundKg(0.855))
	assert.Equal(t, 0.01, RoundKg(0.005))
	assert.Equal(t, 0.0, RoundKg(0.004))
	assert.Equal(t, 0.0, RoundKg(-4))
	assert.Equal(t, 0.0, RoundKg(math.NaN()))
	assert.Equal(t, 0.0, RoundKg(math.Inf(1)))
	assert.Equal(t, 1e307, RoundKg(1e307))
	assert.Equal(t, math.MaxFloat64, RoundKg(math.MaxFloat64))
}

func TestCalculate_HugeInputsStayFinite(t *testing.T) {
	tests := []struct {
		name     string
		category string
		details  map[string]any
		wantKg   float64
		clamped  []string
	}{
		{"car distance", "Transportation", map[string]any{"mode": "car", "distance": "1e307"}, 192000000, []string{FieldDistance}},
		{"plane distance", "Transportation", map[string]any{"mode": "plane", "distance": 1e307}, 255000000, []string{FieldDistance}},
		{"electricity", "Home Energy", map[string]any{"energy_type": "electricity", "amount": 1e308}, 233000000, []string{FieldAmount}},
		{"electronics", "Shopping", map[string]any{"product_type": "electronics", "amount_spent": "1e300"}, 700000000, []string{FieldAmountSpent}},
		{"custom", "Gardening", map[string]any{"amount": 1e308}, MaxAmount, []string{FieldAmount}},
		{"meat servings", "Food", map[string]any{"meal_type": "meat_high", "servings": 1e300}, 7 * maxCount, []string{FieldServings}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.category, "x", tt.details)
			require.False(t, math.IsInf(got.CarbonKg, 0))
			assert.InDelta(t, tt.wantKg, got.CarbonKg, 1e-6)
			assert.Equal(t, tt.clamped, got.Report.Clamped)

			_, err := json.Marshal(got)
			require.NoError(t, err)
		})
	}
}
