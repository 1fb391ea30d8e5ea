package garden

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 20

//nolint:gochecknoglobals // Plant art indexed by level number.
var plants = map[int][]string{
	1: {"  .  ", " _|_ "},
	2: {"  ,  ", " \\|/ ", " _|_ "},
	3: {"  @  ", " \\|/ ", "  |  ", " _|_ "},
	4: {" @@@ ", "@@@@@", " \\|/ ", "  |  ", " _|_ "},
	5: {" @@@@@ ", "@@@@@@@", " @@@@@ ", "  \\|/  ", "   |   ", "  _|_  "},
	6: {"  @@@@@  ", " @@@@@@@ ", "@@@@@@@@@", " @@@@@@@ ", "   \\|/   ", "    |    ", "   _|_   "},
}

//nolint:gochecknoglobals // Shared styles.
var (
	leafStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("34")).
			Padding(0, 1)
)

// ProgressBar draws a fixed-width bar for pct in [0, 100].
func ProgressBar(pct float64) string {
	filled := int(pct / 100 * barWidth)
	filled = max(0, min(barWidth, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}

// Render draws the plant, its level and the progress towards the next one.
// styled adds colour and a border for terminals.
func Render(g Growth, styled bool) string {
	art := strings.Join(plants[g.Level.Number], "\n")
	title := fmt.Sprintf("Level %d: %s", g.Level.Number, g.Level.Name)
	bar := fmt.Sprintf("%s %.0f%%", ProgressBar(g.ProgressPct), g.ProgressPct)

	var footer string
	if g.Maxed {
		footer = fmt.Sprintf("%d points, fully grown", g.Points)
	} else {
		footer = fmt.Sprintf("%d points, %d to %s", g.Points, g.PointsToNext, g.Next.Name)
	}

	if !styled {
		return strings.Join([]string{art, title, bar, footer}, "\n") + "\n"
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		leafStyle.Render(art),
		titleStyle.Render(title),
		barStyle.Render(bar),
		mutedStyle.Render(footer),
	)
	return boxStyle.Render(body) + "\n"
}
