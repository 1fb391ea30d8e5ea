package footprint

import (
	"encoding/json"
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/rshade/ecoquest/internal/greenops"
)

// Raw detail field names as submitted by the activity form.
const (
	FieldMode         = "mode"
	FieldDistance     = "distance"
	FieldPassengers   = "passengers"
	FieldMealType     = "meal_type"
	FieldServings     = "servings"
	FieldLocalSourced = "local_sourced"
	FieldOrganic      = "organic"
	FieldEnergyType   = "energy_type"
	FieldAmount       = "amount"
	FieldGreenEnergy  = "green_energy"
	FieldProductType  = "product_type"
	FieldAmountSpent  = "amount_spent"
	FieldSustainable  = "sustainable"
	FieldDescription  = "description"
)

// MaxAmount caps distance, energy, spend and custom amounts so that every
// footprint and every sum of footprints stays finite.
const MaxAmount = 1e9

// maxCount caps count fields so that huge inputs cannot overflow int conversion.
const maxCount = math.MaxInt32

// ParseReport lists the raw fields that did not parse cleanly.
type ParseReport struct {
	// Defaulted holds fields that were missing or unparsable and fell back
	// to their default value.
	Defaulted []string `json:"defaulted,omitempty"`

	// Unknown holds enum fields whose value was present but not recognized.
	// These also fall back to the category default.
	Unknown []string `json:"unknown,omitempty"`

	// Clamped holds fields whose value exceeded its cap and was lowered to it.
	Clamped []string `json:"clamped,omitempty"`
}

// Clean reports whether every field parsed as given.
func (r ParseReport) Clean() bool {
	return len(r.Defaulted) == 0 && len(r.Unknown) == 0 && len(r.Clamped) == 0
}

// Parse converts raw form values into the Details variant for category.
//
// Numeric fields that are missing, unparsable, non-finite or negative become 0;
// amounts above MaxAmount are lowered to it and listed in ParseReport.Clamped.
// A custom amount may carry a carbon unit ("300 g", "2 tCO2e") and is
// converted to kg. Count fields (passengers, servings) are truncated and
// become 1 when below one.
// Missing enum fields take the category default; unrecognized enum values also
// take the default and are listed in ParseReport.Unknown. Boolean flags are
// false unless set to a truthy value; a flag that is present but unreadable is
// listed as defaulted. Parse never fails.
func Parse(category Category, raw map[string]any) (Details, ParseReport) {
	p := &fieldParser{raw: raw}

	var d Details
	switch category {
	case CategoryTransportation:
		d = TransportDetails{
			Mode:       parseEnum(p, FieldMode, DefaultMode),
			DistanceKm: p.amount(FieldDistance),
			Passengers: p.count(FieldPassengers),
		}
	case CategoryFood:
		d = FoodDetails{
			MealType:     parseEnum(p, FieldMealType, DefaultMealType),
			Servings:     p.count(FieldServings),
			LocalSourced: p.flag(FieldLocalSourced),
			Organic:      p.flag(FieldOrganic),
		}
	case CategoryHomeEnergy:
		d = EnergyDetails{
			EnergyType:  parseEnum(p, FieldEnergyType, DefaultEnergyType),
			Amount:      p.amount(FieldAmount),
			GreenEnergy: p.flag(FieldGreenEnergy),
		}
	case CategoryShopping:
		d = ShoppingDetails{
			ProductType: parseEnum(p, FieldProductType, DefaultProductType),
			AmountSpent: p.amount(FieldAmountSpent),
			Sustainable: p.flag(FieldSustainable),
		}
	case CategoryCustom:
		d = CustomDetails{
			Amount:      p.quantity(FieldAmount),
			Description: p.text(FieldDescription),
		}
	default:
		d = CustomDetails{Amount: p.quantity(FieldAmount)}
	}

	return d, p.report()
}

type fieldParser struct {
	raw       map[string]any
	defaulted []string
	unknown   []string
	clamped   []string
}

func (p *fieldParser) report() ParseReport {
	slices.Sort(p.defaulted)
	slices.Sort(p.unknown)
	slices.Sort(p.clamped)
	return ParseReport{Defaulted: p.defaulted, Unknown: p.unknown, Clamped: p.clamped}
}

func (p *fieldParser) lookup(key string) (any, bool) {
	v, ok := p.raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (p *fieldParser) amount(key string) float64 {
	return p.measure(key, toFloat)
}

// quantity is amount for fields measured in kg CO2e, which also accept a unit.
func (p *fieldParser) quantity(key string) float64 {
	return p.measure(key, toKg)
}

func (p *fieldParser) measure(key string, conv func(any) (float64, bool)) float64 {
	v, ok := p.lookup(key)
	if !ok {
		p.defaulted = append(p.defaulted, key)
		return 0
	}
	f, ok := conv(v)
	if !ok || f < 0 {
		p.defaulted = append(p.defaulted, key)
		return 0
	}
	if f > MaxAmount {
		p.clamped = append(p.clamped, key)
		return MaxAmount
	}
	return f
}

func (p *fieldParser) count(key string) int {
	v, ok := p.lookup(key)
	if !ok {
		p.defaulted = append(p.defaulted, key)
		return 1
	}
	f, ok := toFloat(v)
	if !ok {
		p.defaulted = append(p.defaulted, key)
		return 1
	}
	n := math.Trunc(f)
	if n < 1 {
		p.defaulted = append(p.defaulted, key)
		return 1
	}
	if n > maxCount {
		p.clamped = append(p.clamped, key)
		return maxCount
	}
	return int(n)
}

// flag treats a missing flag as an unchecked box; only unreadable values
// are reported.
func (p *fieldParser) flag(key string) bool {
	v, ok := p.lookup(key)
	if !ok {
		return false
	}
	b, ok := toBool(v)
	if !ok {
		p.defaulted = append(p.defaulted, key)
		return false
	}
	return b
}

func (p *fieldParser) text(key string) string {
	v, ok := p.lookup(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// enum is satisfied by the enumerated detail types.
type enum interface {
	~string
	Valid() bool
}

func parseEnum[T enum](p *fieldParser, key string, def T) T {
	v, ok := p.lookup(key)
	if !ok {
		p.defaulted = append(p.defaulted, key)
		return def
	}
	s, ok := v.(string)
	if !ok {
		p.unknown = append(p.unknown, key)
		return def
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		p.defaulted = append(p.defaulted, key)
		return def
	}
	t := T(s)
	if !t.Valid() {
		p.unknown = append(p.unknown, key)
		return def
	}
	return t
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toKg reads a plain number as kg and otherwise parses a quantity with a
// carbon unit. Quantities too large for float64 report +Inf so they clamp.
func toKg(v any) (float64, bool) {
	if f, ok := toFloat(v); ok {
		return f, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	kg, err := greenops.ParseQuantity(s)
	switch {
	case errors.Is(err, greenops.ErrCalculationOverflow) && !strings.HasPrefix(strings.TrimSpace(s), "-"):
		return math.Inf(1), true
	case err != nil:
		return 0, false
	}
	return kg, true
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "on", "yes", "y":
			return true, true
		case "off", "no", "n", "":
			return false, true
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		f, ok := toFloat(v)
		if !ok {
			return false, false
		}
		return f != 0, true
	}
}
