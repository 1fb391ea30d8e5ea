// Package garden maps a user's total points onto plant growth stages.
package garden

import "math"

// Level is one growth stage.
type Level struct {
	Number   int    `json:"level"`
	Name     string `json:"name"`
	Required int    `json:"points_required"`
}

// Growth is a user's position on the level ladder.
type Growth struct {
	Points       int     `json:"points"`
	Level        Level   `json:"current"`
	Next         Level   `json:"next"`
	ProgressPct  float64 `json:"progress_pct"`
	PointsToNext int     `json:"points_to_next"`
	Maxed        bool    `json:"maxed"`
}

// Levels returns the growth ladder in ascending order.
func Levels() []Level {
	return []Level{
		{Number: 1, Name: "Seedling", Required: 0},
		{Number: 2, Name: "Sprout", Required: 100},
		{Number: 3, Name: "Sapling", Required: 200},
		{Number: 4, Name: "Young Tree", Required: 500},
		{Number: 5, Name: "Mature Tree", Required: 1000},
		{Number: 6, Name: "Ancient Tree", Required: 2000},
	}
}

// Grow places points on the ladder. Negative points count as zero. At the
// top level Next equals Level and progress is 100.
func Grow(points int) Growth {
	if points < 0 {
		points = 0
	}

	levels := Levels()
	idx := 0
	for i := len(levels) - 1; i >= 0; i-- {
		if points >= levels[i].Required {
			idx = i
			break
		}
	}

	g := Growth{Points: points, Level: levels[idx]}
	if idx == len(levels)-1 {
		g.Next = levels[idx]
		g.ProgressPct = 100
		g.Maxed = true
		return g
	}

	g.Next = levels[idx+1]
	span := float64(g.Next.Required - g.Level.Required)
	pct := float64(points-g.Level.Required) / span * 100
	g.ProgressPct = math.Min(100, math.Round(pct*100)/100)
	g.PointsToNext = g.Next.Required - points
	return g
}
