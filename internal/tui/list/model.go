package listview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// defaultBufferSize is the number of extra rows rendered above and below the viewport.
const defaultBufferSize = 5

// RenderFunc renders one item. selected reports whether the item has the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// KeyMap holds the navigation bindings of a Model.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
}

// DefaultKeyMap returns arrow, paging and vim-style bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g/home", "first")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "last")),
	}
}

// Model is a virtual scrolling list.
type Model[T any] struct {
	KeyMap KeyMap

	items      []T
	render     RenderFunc[T]
	selected   int
	from, to   int
	height     int
	width      int
	bufferSize int
}

// New returns a list over items with a viewport of height rows.
func New[T any](items []T, height, width int, render RenderFunc[T]) *Model[T] {
	m := &Model[T]{
		KeyMap:     DefaultKeyMap(),
		items:      items,
		render:     render,
		height:     max(height, 1),
		width:      width,
		bufferSize: defaultBufferSize,
	}
	m.updateVisibleRange()
	return m
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and resizes.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}

	switch {
	case key.Matches(msg, m.KeyMap.Up):
		m.SetSelected(m.selected - 1)
	case key.Matches(msg, m.KeyMap.Down):
		m.SetSelected(m.selected + 1)
	case key.Matches(msg, m.KeyMap.PageUp):
		m.SetSelected(m.selected - m.height)
	case key.Matches(msg, m.KeyMap.PageDown):
		m.SetSelected(m.selected + m.height)
	case key.Matches(msg, m.KeyMap.Home):
		m.SetSelected(0)
	case key.Matches(msg, m.KeyMap.End):
		m.SetSelected(len(m.items) - 1)
	}
}

// updateVisibleRange keeps the selected item roughly centered in the viewport.
func (m *Model[T]) updateVisibleRange() {
	if len(m.items) == 0 {
		m.from, m.to = 0, 0
		return
	}

	half := m.height / 2
	from := m.selected - half
	to := from + m.height

	if from < 0 {
		from, to = 0, m.height
	}
	if to > len(m.items) {
		to = len(m.items)
		from = max(to-m.height, 0)
	}
	m.from, m.to = from, to
}

// View renders the visible rows plus the buffer.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	start := max(m.from-m.bufferSize, 0)
	end := min(m.to+m.bufferSize, len(m.items))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.render(m.items[i], i == m.selected))
	}
	return strings.Join(lines, "\n")
}

// SetItems replaces the items, keeping the cursor in bounds.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.selected)
}

// SetSize changes the viewport.
func (m *Model[T]) SetSize(width, height int) {
	m.width = width
	m.height = max(height, 1)
	m.updateVisibleRange()
}

// SetSelected moves the cursor, clamped to the item range.
func (m *Model[T]) SetSelected(index int) {
	switch {
	case len(m.items) == 0 || index < 0:
		m.selected = 0
	case index >= len(m.items):
		m.selected = len(m.items) - 1
	default:
		m.selected = index
	}
	m.updateVisibleRange()
}

// Len returns the number of items.
func (m *Model[T]) Len() int { return len(m.items) }

// Selected returns the cursor index.
func (m *Model[T]) Selected() int { return m.selected }

// VisibleRange returns the half-open range of rows inside the viewport.
func (m *Model[T]) VisibleRange() (int, int) { return m.from, m.to }

// Height returns the viewport height.
func (m *Model[T]) Height() int { return m.height }

// Width returns the viewport width.
func (m *Model[T]) Width() int { return m.width }

// SelectedItem returns the item under the cursor, or false when the list is empty.
func (m *Model[T]) SelectedItem() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.selected], true
}
