package listview

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func render(item int, selected bool) string {
	if selected {
		return fmt.Sprintf("> %d", item)
	}
	return fmt.Sprintf("  %d", item)
}

func items(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModel_Navigation(t *testing.T) {
	m := New(items(100), 10, 80, render)

	tests := []struct {
		key  string
		want int
	}{
		{"down", 1},
		{"j", 2},
		{"k", 1},
		{"up", 0},
		{"up", 0},
		{"pgdown", 10},
		{"pgup", 0},
		{"end", 99},
		{"down", 99},
		{"G", 99},
		{"g", 0},
		{"home", 0},
		{"x", 0},
	}
	for _, tt := range tests {
		m.Update(keyMsg(tt.key))
		assert.Equal(t, tt.want, m.Selected(), "after %q", tt.key)
	}
}

func TestModel_VisibleRange(t *testing.T) {
	m := New(items(100), 10, 80, render)

	from, to := m.VisibleRange()
	assert.Equal(t, 0, from)
	assert.Equal(t, 10, to)

	m.SetSelected(50)
	from, to = m.VisibleRange()
	assert.Equal(t, 45, from)
	assert.Equal(t, 55, to)

	m.SetSelected(99)
	from, to = m.VisibleRange()
	assert.Equal(t, 90, from)
	assert.Equal(t, 100, to)

	m.SetSelected(-5)
	assert.Equal(t, 0, m.Selected())
}

func TestModel_ViewRendersWindowOnly(t *testing.T) {
	m := New(items(1000), 10, 80, render)
	m.SetSelected(500)

	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 10+2*defaultBufferSize)
	assert.Contains(t, m.View(), "> 500")
	assert.NotContains(t, m.View(), " 10\n")
}

func TestModel_EmptyAndResize(t *testing.T) {
	m := New([]int{}, 10, 80, render)
	assert.Empty(t, m.View())
	_, ok := m.SelectedItem()
	assert.False(t, ok)
	m.Update(keyMsg("down"))
	assert.Equal(t, 0, m.Selected())

	m.SetItems(items(3))
	m.SetSelected(2)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 2})
	assert.Equal(t, 40, m.Width())
	assert.Equal(t, 2, m.Height())
	from, to := m.VisibleRange()
	assert.Equal(t, 1, from)
	assert.Equal(t, 3, to)

	m.SetItems(items(1))
	item, ok := m.SelectedItem()
	assert.True(t, ok)
	assert.Equal(t, 0, item)
}
