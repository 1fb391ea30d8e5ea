package pagination

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/rshade/ecoquest/internal/activity"
)

// Sort fields accepted for activities.
const (
	FieldDate     = "date"
	FieldCarbon   = "carbon"
	FieldPoints   = "points"
	FieldCategory = "category"
	FieldType     = "type"
)

var activityComparers = map[string]func(a, b activity.Activity) int{
	FieldDate:     func(a, b activity.Activity) int { return cmp.Compare(a.Date, b.Date) },
	FieldCarbon:   func(a, b activity.Activity) int { return cmp.Compare(a.CarbonKg, b.CarbonKg) },
	FieldPoints:   func(a, b activity.Activity) int { return cmp.Compare(a.Points, b.Points) },
	FieldCategory: func(a, b activity.Activity) int { return strings.Compare(a.CategoryName, b.CategoryName) },
	FieldType: func(a, b activity.Activity) int {
		return strings.Compare(strings.ToLower(a.ActivityType), strings.ToLower(b.ActivityType))
	},
}

// ActivityFields returns the valid activity sort fields in a stable order.
func ActivityFields() []string {
	fields := make([]string, 0, len(activityComparers))
	for f := range activityComparers {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// SortActivities returns a sorted copy of acts. Ties keep their input order.
func SortActivities(acts []activity.Activity, field, order string) ([]activity.Activity, error) {
	compare, ok := activityComparers[field]
	if !ok {
		return nil, fmt.Errorf("%w %q: valid fields are %s",
			ErrInvalidSortField, field, strings.Join(ActivityFields(), ", "))
	}

	sorted := slices.Clone(acts)
	slices.SortStableFunc(sorted, func(a, b activity.Activity) int {
		if order == SortOrderDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return sorted, nil
}
