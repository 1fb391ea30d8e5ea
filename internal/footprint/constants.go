package footprint

// TransportMode is the means of travel for a Transportation activity.
type TransportMode string

// Transport modes.
const (
	ModeCar   TransportMode = "car"
	ModeBus   TransportMode = "bus"
	ModeTrain TransportMode = "train"
	ModePlane TransportMode = "plane"
	ModeBike  TransportMode = "bike"
	ModeWalk  TransportMode = "walk"
)

// MealType is the kind of meal for a Food activity.
type MealType string

// Meal types.
const (
	MealVegan       MealType = "vegan"
	MealVegetarian  MealType = "vegetarian"
	MealPescatarian MealType = "pescatarian"
	MealMeatLow     MealType = "meat_low"
	MealMeatHigh    MealType = "meat_high"
)

// EnergyType is the energy source for a Home Energy activity.
type EnergyType string

// Energy types.
const (
	EnergyElectricity EnergyType = "electricity"
	EnergyNaturalGas  EnergyType = "natural_gas"
	EnergyHeatingOil  EnergyType = "heating_oil"
	EnergyRenewable   EnergyType = "renewable"
)

// ProductType is the kind of purchase for a Shopping activity.
type ProductType string

// Product types.
const (
	ProductClothing    ProductType = "clothing"
	ProductElectronics ProductType = "electronics"
	ProductHousehold   ProductType = "household"
	ProductSecondhand  ProductType = "secondhand"
)

// Category defaults used when an enum field is missing or unrecognized.
const (
	DefaultMode        = ModeCar
	DefaultMealType    = MealMeatLow
	DefaultEnergyType  = EnergyElectricity
	DefaultProductType = ProductHousehold
)

// Emission factors in kg CO2e per km, per serving, per energy unit (kWh or m³)
// and per currency unit spent.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	transportFactors = map[TransportMode]float64{
		ModeCar:   0.192,
		ModeBus:   0.105,
		ModeTrain: 0.041,
		ModePlane: 0.255,
		ModeBike:  0,
		ModeWalk:  0,
	}

	mealFactors = map[MealType]float64{
		MealVegan:       0.5,
		MealVegetarian:  1.2,
		MealPescatarian: 2.0,
		MealMeatLow:     3.5,
		MealMeatHigh:    7.0,
	}

	energyFactors = map[EnergyType]float64{
		EnergyElectricity: 0.233,
		EnergyNaturalGas:  0.184,
		EnergyHeatingOil:  0.268,
		EnergyRenewable:   0.025,
	}

	productFactors = map[ProductType]float64{
		ProductClothing:    0.5,
		ProductElectronics: 0.7,
		ProductHousehold:   0.3,
		ProductSecondhand:  0.1,
	}

	mealPoints = map[MealType]float64{
		MealVegan:       25,
		MealVegetarian:  20,
		MealPescatarian: 15,
		MealMeatLow:     10,
		MealMeatHigh:    5,
	}
)

// Reduction multipliers applied to a footprint when a sustainability flag is set.
const (
	LocalSourcedFactor = 0.9
	OrganicFactor      = 0.95
	GreenEnergyFactor  = 0.2
	SustainableFactor  = 0.7
)

// Points awarded per category branch.
const (
	// MinPoints is the floor applied to every points result.
	MinPoints = 1

	ActivePointsPerKm     = 2
	PublicTransportPoints = 15
	SoloCarPoints         = 10
	CarpoolPointsPerRider = 5
	PlanePoints           = 5

	LocalSourcedBonus = 5
	OrganicBonus      = 5

	RenewablePoints   = 25
	GreenEnergyPoints = 20
	BaseEnergyPoints  = 10

	SecondhandPoints   = 20
	SustainablePoints  = 15
	BaseShoppingPoints = 5

	CustomPoints = 5
)

// Valid reports whether m is a known transport mode.
func (m TransportMode) Valid() bool { _, ok := transportFactors[m]; return ok }

// Valid reports whether t is a known meal type.
func (t MealType) Valid() bool { _, ok := mealFactors[t]; return ok }

// Valid reports whether t is a known energy type.
func (t EnergyType) Valid() bool { _, ok := energyFactors[t]; return ok }

// Valid reports whether t is a known product type.
func (t ProductType) Valid() bool { _, ok := productFactors[t]; return ok }

func (m TransportMode) orDefault() TransportMode {
	if m.Valid() {
		return m
	}
	return DefaultMode
}

func (t MealType) orDefault() MealType {
	if t.Valid() {
		return t
	}
	return DefaultMealType
}

func (t EnergyType) orDefault() EnergyType {
	if t.Valid() {
		return t
	}
	return DefaultEnergyType
}

func (t ProductType) orDefault() ProductType {
	if t.Valid() {
		return t
	}
	return DefaultProductType
}
