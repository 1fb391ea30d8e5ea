package footprint

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Transportation", CategoryTransportation},
		{"  food ", CategoryFood},
		{"Home Energy", CategoryHomeEnergy},
		{"HOME ENERGY", CategoryHomeEnergy},
		{"Shopping", CategoryShopping},
		{"HomeEnergy", CategoryCustom},
		{"", CategoryCustom},
		{"Volunteering", CategoryCustom},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.in))
		})
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "Home Energy", CategoryHomeEnergy.String())
	assert.Equal(t, "Custom", CategoryCustom.String())
	assert.Equal(t, "Category(42)", Category(42).String())
	for _, c := range KnownCategories() {
		assert.Equal(t, c, ParseCategory(c.String()), "names round-trip")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		category   Category
		raw        map[string]any
		want       Details
		wantReport ParseReport
	}{
		{
			name:     "transport from form strings",
			category: CategoryTransportation,
			raw:      map[string]any{"mode": " Train ", "distance": "42.5", "passengers": "2"},
			want:     TransportDetails{Mode: ModeTrain, DistanceKm: 42.5, Passengers: 2},
		},
		{
			name:     "transport empty map uses defaults",
			category: CategoryTransportation,
			raw:      map[string]any{},
			want:     TransportDetails{Mode: ModeCar, DistanceKm: 0, Passengers: 1},
			wantReport: ParseReport{
				Defaulted: []string{FieldDistance, FieldMode, FieldPassengers},
			},
		},
		{
			name:     "transport unknown mode and bad numbers",
			category: CategoryTransportation,
			raw:      map[string]any{"mode": "rocket", "distance": "far", "passengers": 0},
			want:     TransportDetails{Mode: ModeCar, DistanceKm: 0, Passengers: 1},
			wantReport: ParseReport{
				Defaulted: []string{FieldDistance, FieldPassengers},
				Unknown:   []string{FieldMode},
			},
		},
		{
			name:     "passengers truncate like integer parsing",
			category: CategoryTransportation,
			raw:      map[string]any{"mode": "car", "distance": 10.0, "passengers": 3.9},
			want:     TransportDetails{Mode: ModeCar, DistanceKm: 10, Passengers: 3},
		},
		{
			name:     "food with json numbers and flag strings",
			category: CategoryFood,
			raw: map[string]any{
				"meal_type": "vegetarian", "servings": json.Number("3"),
				"local_sourced": "true", "organic": "no",
			},
			want: FoodDetails{MealType: MealVegetarian, Servings: 3, LocalSourced: true},
		},
		{
			name:     "food unreadable flag is reported",
			category: CategoryFood,
			raw:      map[string]any{"meal_type": "vegan", "servings": 1, "organic": "maybe"},
			want:     FoodDetails{MealType: MealVegan, Servings: 1},
			wantReport: ParseReport{
				Defaulted: []string{FieldOrganic},
			},
		},
		{
			name:     "energy numeric flag",
			category: CategoryHomeEnergy,
			raw:      map[string]any{"energy_type": "natural_gas", "amount": int64(12), "green_energy": 1},
			want:     EnergyDetails{EnergyType: EnergyNaturalGas, Amount: 12, GreenEnergy: true},
		},
		{
			name:     "shopping negative spend defaults",
			category: CategoryShopping,
			raw:      map[string]any{"product_type": "clothing", "amount_spent": -20, "sustainable": "on"},
			want:     ShoppingDetails{ProductType: ProductClothing, AmountSpent: 0, Sustainable: true},
			wantReport: ParseReport{
				Defaulted: []string{FieldAmountSpent},
			},
		},
		{
			name:     "shopping non-string enum is unknown",
			category: CategoryShopping,
			raw:      map[string]any{"product_type": 7, "amount_spent": 10},
			want:     ShoppingDetails{ProductType: ProductHousehold, AmountSpent: 10},
			wantReport: ParseReport{
				Unknown: []string{FieldProductType},
			},
		},
		{
			name:     "custom keeps description",
			category: CategoryCustom,
			raw:      map[string]any{"amount": "2.25", "description": "  composting "},
			want:     CustomDetails{Amount: 2.25, Description: "composting"},
		},
		{
			name:     "custom amount with grams",
			category: CategoryCustom,
			raw:      map[string]any{"amount": "300 g"},
			want:     CustomDetails{Amount: 0.3},
		},
		{
			name:     "custom amount with kg suffix",
			category: CategoryCustom,
			raw:      map[string]any{"amount": "12.5kg"},
			want:     CustomDetails{Amount: 12.5},
		},
		{
			name:     "custom amount in tonnes CO2e",
			category: CategoryCustom,
			raw:      map[string]any{"amount": "2 tCO2e"},
			want:     CustomDetails{Amount: 2000},
		},
		{
			name:       "custom amount with unknown unit",
			category:   CategoryCustom,
			raw:        map[string]any{"amount": "3 stone"},
			want:       CustomDetails{},
			wantReport: ParseReport{Defaulted: []string{FieldAmount}},
		},
		{
			name:       "custom negative quantity",
			category:   CategoryCustom,
			raw:        map[string]any{"amount": "-3 kg"},
			want:       CustomDetails{},
			wantReport: ParseReport{Defaulted: []string{FieldAmount}},
		},
		{
			name:       "huge distance and passengers are clamped",
			category:   CategoryTransportation,
			raw:        map[string]any{"mode": "car", "distance": "1e307", "passengers": 1e12},
			want:       TransportDetails{Mode: ModeCar, DistanceKm: MaxAmount, Passengers: maxCount},
			wantReport: ParseReport{Clamped: []string{FieldDistance, FieldPassengers}},
		},
		{
			name:       "huge custom amount is clamped",
			category:   CategoryCustom,
			raw:        map[string]any{"amount": 1e308},
			want:       CustomDetails{Amount: MaxAmount},
			wantReport: ParseReport{Clamped: []string{FieldAmount}},
		},
		{
			name:     "nil map",
			category: CategoryCustom,
			raw:      nil,
			want:     CustomDetails{},
			wantReport: ParseReport{
				Defaulted: []string{FieldAmount},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report := Parse(tt.category, tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() details mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantReport.Defaulted, report.Defaulted)
			assert.Equal(t, tt.wantReport.Unknown, report.Unknown)
			assert.Equal(t, tt.wantReport.Clamped, report.Clamped)
			assert.Equal(t, tt.category, got.Category())
		})
	}
}

func TestParseReport_Clean(t *testing.T) {
	assert.True(t, ParseReport{}.Clean())
	assert.False(t, ParseReport{Defaulted: []string{"x"}}.Clean())
	assert.False(t, ParseReport{Unknown: []string{"x"}}.Clean())
	assert.False(t, ParseReport{Clamped: []string{"x"}}.Clean())
}

func TestParse_NonFiniteNumbers(t *testing.T) {
	got, report := Parse(CategoryHomeEnergy, map[string]any{
		"energy_type": "electricity",
		"amount":      "NaN",
	})
	assert.Equal(t, EnergyDetails{EnergyType: EnergyElectricity}, got)
	assert.Equal(t, []string{FieldAmount}, report.Defaulted)

	got, _ = Parse(CategoryHomeEnergy, map[string]any{"energy_type": "electricity", "amount": "+Inf"})
	assert.Equal(t, 0.0, got.(EnergyDetails).Amount)
}
