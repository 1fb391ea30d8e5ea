// Package insights aggregates activity history into daily summaries,
// trends, category breakdowns and reduction tips.
package insights

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for activity dates.
const DateLayout = "2006-01-02"

// DefaultTargetKg is the daily target used when none is configured.
const DefaultTargetKg = 10.0

// xpPerKg converts kilograms under target into experience points.
const xpPerKg = 10

// Record is the slice of an activity that aggregation needs.
type Record struct {
	Date         time.Time
	CategoryID   int
	CategoryName string
	CarbonKg     float64
}

// DailySummary reports one day against the user's target.
type DailySummary struct {
	Date           string  `json:"date"`
	TotalCarbonKg  float64 `json:"total_carbon_kg"`
	ActivityCount  int     `json:"activity_count"`
	TargetKg       float64 `json:"target_kg"`
	TargetAchieved bool    `json:"target_achieved"`
	XPEarned       int     `json:"xp_earned"`
}

// Summarize totals the records dated on date. The target is achieved when
// the total does not exceed it; each kilogram under target earns 10 XP.
// A non-positive or non-finite target falls back to DefaultTargetKg.
func Summarize(date time.Time, records []Record, targetKg float64) DailySummary {
	if targetKg <= 0 || math.IsNaN(targetKg) || math.IsInf(targetKg, 0) {
		targetKg = DefaultTargetKg
	}
	day := date.Format(DateLayout)

	s := DailySummary{Date: day, TargetKg: targetKg}
	var total float64
	for _, r := range records {
		if r.Date.Format(DateLayout) != day {
			continue
		}
		total += r.CarbonKg
		s.ActivityCount++
	}
	s.TotalCarbonKg = round2(total)

	if s.TotalCarbonKg <= targetKg {
		s.TargetAchieved = true
		s.XPEarned = int(math.Round((targetKg - s.TotalCarbonKg) * xpPerKg))
	}
	return s
}

// Range is a reporting window.
type Range string

// Reporting windows.
const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

// ParseRange parses a window name. Empty means month.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeMonth, nil
	case RangeWeek, RangeMonth, RangeYear:
		return r, nil
	default:
		return "", fmt.Errorf("invalid range %q (want week, month or year)", s)
	}
}

// Granularity is the trend bucket size.
type Granularity string

// Bucket sizes.
const (
	ByDay   Granularity = "day"
	ByMonth Granularity = "month"
)

func (g Granularity) layout() string {
	if g == ByMonth {
		return "2006-01"
	}
	return DateLayout
}

// Window returns the inclusive date span for rng ending on now's date.
func Window(rng Range, now time.Time) (time.Time, time.Time, Granularity) {
	to := truncateDay(now)
	switch rng {
	case RangeWeek:
		return to.AddDate(0, 0, -7), to, ByDay
	case RangeYear:
		return to.AddDate(-1, 0, 0), to, ByMonth
	default:
		return to.AddDate(0, -1, 0), to, ByDay
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Point is one trend bucket.
type Point struct {
	Period   string  `json:"period"`
	CarbonKg float64 `json:"carbon_kg"`
}

// Trend sums records into buckets sorted by period.
func Trend(records []Record, g Granularity) []Point {
	sums := make(map[string]float64)
	for _, r := range records {
		sums[r.Date.Format(g.layout())] += r.CarbonKg
	}

	points := make([]Point, 0, len(sums))
	for period, kg := range sums {
		points = append(points, Point{Period: period, CarbonKg: round2(kg)})
	}
	slices.SortFunc(points, func(a, b Point) int { return cmp.Compare(a.Period, b.Period) })
	return points
}

// CategoryTotal is one row of the category breakdown.
type CategoryTotal struct {
	CategoryID   int     `json:"category_id"`
	CategoryName string  `json:"category_name"`
	CarbonKg     float64 `json:"carbon_kg"`
	SharePct     float64 `json:"share_pct"`
}

// ByCategory totals records per category, largest first.
func ByCategory(records []Record) []CategoryTotal {
	index := make(map[int]int)
	var totals []CategoryTotal
	var grand float64

	for _, r := range records {
		i, ok := index[r.CategoryID]
		if !ok {
			i = len(totals)
			index[r.CategoryID] = i
			totals = append(totals, CategoryTotal{CategoryID: r.CategoryID, CategoryName: r.CategoryName})
		}
		totals[i].CarbonKg += r.CarbonKg
		grand += r.CarbonKg
	}

	for i := range totals {
		if grand > 0 {
			totals[i].SharePct = round2(totals[i].CarbonKg / grand * 100)
		}
		totals[i].CarbonKg = round2(totals[i].CarbonKg)
	}

	slices.SortFunc(totals, func(a, b CategoryTotal) int {
		if c := cmp.Compare(b.CarbonKg, a.CarbonKg); c != 0 {
			return c
		}
		return cmp.Compare(a.CategoryID, b.CategoryID)
	})
	return totals
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
