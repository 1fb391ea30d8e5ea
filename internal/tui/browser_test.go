package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoquest/internal/activity"
)

func fixtures() []activity.Activity {
	return []activity.Activity{
		{ID: "a1", Date: "2024-03-01", CategoryName: "Transportation", ActivityType: "commute", CarbonKg: 19.2, Points: 10,
			Details: map[string]any{"mode": "car", "distance": 100.0}},
		{ID: "a2", Date: "2024-03-03", CategoryName: "Food", ActivityType: "lunch", CarbonKg: 0.86, Points: 35},
		{ID: "a3", Date: "2024-03-02", CategoryName: "Shopping", ActivityType: "thrift store", CarbonKg: 4, Points: 20},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedBrowser(t *testing.T, del Deleter) *Browser {
	t.Helper()
	b := NewBrowser(context.Background(), func(context.Context) ([]activity.Activity, error) {
		return fixtures(), nil
	}, del)
	require.Equal(t, StateLoading, b.State())
	assert.Contains(t, b.View(), "Loading")

	msg := b.fetch()()
	b.Update(msg)
	require.Equal(t, StateList, b.State())
	return b
}

func ids(acts []activity.Activity) []string {
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.ID
	}
	return out
}

func TestBrowser_SortCycle(t *testing.T) {
	b := loadedBrowser(t, nil)
	assert.Equal(t, []string{"a2", "a3", "a1"}, ids(b.Shown()), "newest first")

	b.Update(runes("s"))
	assert.Equal(t, []string{"a1", "a3", "a2"}, ids(b.Shown()), "highest carbon first")

	b.Update(runes("s"))
	assert.Equal(t, []string{"a2", "a3", "a1"}, ids(b.Shown()), "most points first")

	b.Update(runes("s"))
	assert.Contains(t, b.View(), "sorted by date")
}

func TestBrowser_Filter(t *testing.T) {
	b := loadedBrowser(t, nil)

	b.Update(runes("/"))
	for _, r := range "shop" {
		b.Update(runes(string(r)))
	}
	b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"a3"}, ids(b.Shown()))
	assert.Contains(t, b.View(), "1 activities")

	b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, b.Shown(), 3)
}

func TestBrowser_QuitWhileFilteringTypesQ(t *testing.T) {
	b := loadedBrowser(t, nil)

	b.Update(runes("/"))
	_, cmd := b.Update(runes("q"))
	assert.Equal(t, StateList, b.State())
	_ = cmd

	b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd = b.Update(runes("q"))
	assert.Equal(t, StateQuitting, b.State())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestBrowser_Detail(t *testing.T) {
	b := loadedBrowser(t, nil)

	b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, StateDetail, b.State())

	view := b.View()
	assert.Contains(t, view, "commute")
	assert.Contains(t, view, "19.20 kg CO2e")
	assert.Contains(t, view, "distance: 100")
	assert.Contains(t, view, "mi")

	b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateList, b.State())
}

func TestBrowser_Delete(t *testing.T) {
	var deleted []string
	b := loadedBrowser(t, func(_ context.Context, id string) error {
		if id == "a3" {
			return errors.New("locked")
		}
		deleted = append(deleted, id)
		return nil
	})

	_, cmd := b.Update(runes("d"))
	require.NotNil(t, cmd)
	b.Update(cmd())
	assert.Equal(t, []string{"a2"}, deleted)
	assert.Equal(t, []string{"a3", "a1"}, ids(b.Shown()))

	_, cmd = b.Update(runes("d"))
	b.Update(cmd())
	assert.Len(t, b.Shown(), 2)
	assert.Contains(t, b.View(), "delete failed: locked")
}

func TestBrowser_DeleteDisabledWithoutDeleter(t *testing.T) {
	b := loadedBrowser(t, nil)
	_, cmd := b.Update(runes("d"))
	assert.Nil(t, cmd)
	assert.Len(t, b.Shown(), 3)
}

func TestBrowser_LoadError(t *testing.T) {
	b := NewBrowser(context.Background(), func(context.Context) ([]activity.Activity, error) {
		return nil, errors.New("database is locked")
	}, nil)

	_, cmd := b.Update(b.fetch()())
	assert.Equal(t, StateError, b.State())
	assert.EqualError(t, b.Err(), "database is locked")
	assert.Contains(t, b.View(), "database is locked")
	require.NotNil(t, cmd)
}

func TestBrowser_Empty(t *testing.T) {
	b := NewBrowser(context.Background(), func(context.Context) ([]activity.Activity, error) {
		return nil, nil
	}, nil)
	b.Update(b.fetch()())
	b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateList, b.State())
	assert.Contains(t, b.View(), "no activities")
}
