package footprint

// Details is the typed description of one activity. Exactly one variant
// exists per Category; Parse builds it from raw form values.
type Details interface {
	// Category returns the category this variant belongs to.
	Category() Category

	details()
}

// TransportDetails describes a trip.
type TransportDetails struct {
	Mode       TransportMode `json:"mode"`
	DistanceKm float64       `json:"distance"`
	Passengers int           `json:"passengers"`
}

// FoodDetails describes a meal.
type FoodDetails struct {
	MealType     MealType `json:"meal_type"`
	Servings     int      `json:"servings"`
	LocalSourced bool     `json:"local_sourced"`
	Organic      bool     `json:"organic"`
}

// EnergyDetails describes household energy use. Amount is in kWh or m³.
type EnergyDetails struct {
	EnergyType  EnergyType `json:"energy_type"`
	Amount      float64    `json:"amount"`
	GreenEnergy bool       `json:"green_energy"`
}

// ShoppingDetails describes a purchase. AmountSpent is in currency units.
type ShoppingDetails struct {
	ProductType ProductType `json:"product_type"`
	AmountSpent float64     `json:"amount_spent"`
	Sustainable bool        `json:"sustainable"`
}

// CustomDetails describes an activity in a user-defined category. Amount is
// taken directly as kg CO2e.
type CustomDetails struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// Category implements Details.
func (TransportDetails) Category() Category { return CategoryTransportation }

// Category implements Details.
func (FoodDetails) Category() Category { return CategoryFood }

// Category implements Details.
func (EnergyDetails) Category() Category { return CategoryHomeEnergy }

// Category implements Details.
func (ShoppingDetails) Category() Category { return CategoryShopping }

// Category implements Details.
func (CustomDetails) Category() Category { return CategoryCustom }

func (TransportDetails) details() {}
func (FoodDetails) details()      {}
func (EnergyDetails) details()    {}
func (ShoppingDetails) details()  {}
func (CustomDetails) details()    {}

// riders returns the passenger count with the natural minimum of one.
func (d TransportDetails) riders() int {
	if d.Passengers < 1 {
		return 1
	}
	return d.Passengers
}

func (d FoodDetails) servings() int {
	if d.Servings < 1 {
		return 1
	}
	return d.Servings
}
