// Package tui implements the interactive terminal views.
package tui

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/cli/pagination"
	"github.com/rshade/ecoquest/internal/greenops"
	listview "github.com/rshade/ecoquest/internal/tui/list"
)

// ViewState is the screen the browser is showing.
type ViewState int

// Browser states.
const (
	StateLoading ViewState = iota
	StateList
	StateDetail
	StateError
	StateQuitting
)

const (
	defaultWidth  = 100
	defaultHeight = 24
	chromeHeight  = 7

	colDate     = 10
	colCategory = 16
	colType     = 28
	colCarbon   = 12
	colPoints   = 6
)

// sortModes are cycled with the sort key. Every mode sorts descending.
//
//nolint:gochecknoglobals // Fixed cycle order.
var sortModes = []string{pagination.FieldDate, pagination.FieldCarbon, pagination.FieldPoints}

// Loader fetches the activities to browse.
type Loader func(ctx context.Context) ([]activity.Activity, error)

// Deleter removes one activity by ID.
type Deleter func(ctx context.Context, id string) error

type loadedMsg struct {
	acts []activity.Activity
	err  error
}

type deletedMsg struct {
	id  string
	err error
}

// Browser is the Bubble Tea model behind "activity browse".
type Browser struct {
	ctx    context.Context
	load   Loader
	delete Deleter

	state ViewState
	all   []activity.Activity
	shown []activity.Activity

	list      *listview.Model[activity.Activity]
	filter    textinput.Model
	filtering bool
	spinner   spinner.Model
	help      help.Model
	keys      keyMap

	sortIdx int
	width   int
	height  int
	status  string
	err     error
}

// NewBrowser returns a browser that loads its rows with load. del may be nil
// to disable deletion.
func NewBrowser(ctx context.Context, load Loader, del Deleter) *Browser {
	ti := textinput.New()
	ti.Placeholder = "category or activity..."
	ti.CharLimit = 64
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	b := &Browser{
		ctx:     ctx,
		load:    load,
		delete:  del,
		state:   StateLoading,
		filter:  ti,
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeyMap(),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	b.keys.Delete.SetEnabled(del != nil)
	b.list = listview.New(nil, b.listHeight(), b.width, renderRow)
	return b
}

// State returns the current screen.
func (b *Browser) State() ViewState { return b.state }

// Shown returns the rows after filtering and sorting.
func (b *Browser) Shown() []activity.Activity { return b.shown }

// Err returns the load error, if any.
func (b *Browser) Err() error { return b.err }

// Init starts loading.
func (b *Browser) Init() tea.Cmd {
	return tea.Batch(b.spinner.Tick, b.fetch())
}

func (b *Browser) fetch() tea.Cmd {
	return func() tea.Msg {
		acts, err := b.load(b.ctx)
		return loadedMsg{acts: acts, err: err}
	}
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.help.Width = msg.Width
		b.list.SetSize(b.width, b.listHeight())
		return b, nil
	case loadedMsg:
		if msg.err != nil {
			b.err = msg.err
			b.state = StateError
			return b, tea.Quit
		}
		b.all = msg.acts
		b.state = StateList
		b.refresh()
		return b, nil
	case deletedMsg:
		b.handleDeleted(msg)
		return b, nil
	case spinner.TickMsg:
		if b.state != StateLoading {
			return b, nil
		}
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd
	}

	if b.filtering {
		return b.updateFilter(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}
	if key.Matches(keyMsg, b.keys.Quit) {
		b.state = StateQuitting
		return b, tea.Quit
	}

	switch b.state {
	case StateList:
		return b.updateList(keyMsg)
	case StateDetail:
		if key.Matches(keyMsg, b.keys.Back) {
			b.state = StateList
		}
	}
	return b, nil
}

func (b *Browser) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Detail):
		if len(b.shown) > 0 {
			b.state = StateDetail
		}
		return b, nil
	case key.Matches(msg, b.keys.Filter):
		b.filtering = true
		return b, b.filter.Focus()
	case key.Matches(msg, b.keys.Back):
		if b.filter.Value() != "" {
			b.filter.SetValue("")
			b.refresh()
		}
		return b, nil
	case key.Matches(msg, b.keys.Sort):
		b.sortIdx = (b.sortIdx + 1) % len(sortModes)
		b.refresh()
		return b, nil
	case key.Matches(msg, b.keys.Delete):
		a, ok := b.list.SelectedItem()
		if !ok {
			return b, nil
		}
		b.status = "deleting " + a.ActivityType + "..."
		return b, b.remove(a.ID)
	case key.Matches(msg, b.keys.Help):
		b.help.ShowAll = !b.help.ShowAll
		return b, nil
	}

	b.list.Update(msg)
	return b, nil
}

func (b *Browser) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEnter || keyMsg.Type == tea.KeyEsc {
			b.filtering = false
			b.filter.Blur()
			b.refresh()
			return b, nil
		}
	}
	var cmd tea.Cmd
	b.filter, cmd = b.filter.Update(msg)
	return b, cmd
}

func (b *Browser) remove(id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: b.delete(b.ctx, id)}
	}
}

func (b *Browser) handleDeleted(msg deletedMsg) {
	if msg.err != nil {
		b.status = "delete failed: " + msg.err.Error()
		return
	}
	b.all = slices.DeleteFunc(b.all, func(a activity.Activity) bool { return a.ID == msg.id })
	b.status = "deleted"
	b.refresh()
}

// refresh reapplies the filter and sort and rebuilds the list rows.
func (b *Browser) refresh() {
	query := strings.ToLower(strings.TrimSpace(b.filter.Value()))

	filtered := make([]activity.Activity, 0, len(b.all))
	for _, a := range b.all {
		if query == "" ||
			strings.Contains(strings.ToLower(a.CategoryName), query) ||
			strings.Contains(strings.ToLower(a.ActivityType), query) {
			filtered = append(filtered, a)
		}
	}

	// Sort fields are fixed and known, so the error is unreachable.
	sorted, _ := pagination.SortActivities(filtered, sortModes[b.sortIdx], pagination.SortOrderDesc)
	b.shown = sorted
	b.list.SetItems(sorted)
}

func (b *Browser) listHeight() int {
	return max(b.height-chromeHeight, 3)
}

// View implements tea.Model.
func (b *Browser) View() string {
	switch b.state {
	case StateLoading:
		return b.spinner.View() + " Loading activities...\n"
	case StateError:
		return errorStyle.Render(fmt.Sprintf("Error: %v", b.err)) + "\n"
	case StateQuitting:
		return ""
	case StateDetail:
		a, ok := b.list.SelectedItem()
		if !ok {
			return ""
		}
		return RenderDetail(a) + "\n" + mutedStyle.Render("esc back • q quit")
	default:
		return b.listView()
	}
}

func (b *Browser) listView() string {
	var kg float64
	var points int
	for _, a := range b.shown {
		kg += a.CarbonKg
		points += a.Points
	}

	title := titleStyle.Render("ECOQUEST ACTIVITIES")
	summary := fmt.Sprintf("%d activities • %s • %d points • sorted by %s",
		len(b.shown), greenops.FormatKg(kg), points, sortModes[b.sortIdx])

	header := headerStyle.Render(fmt.Sprintf("  %-*s  %-*s  %-*s  %*s  %*s",
		colDate, "Date", colCategory, "Category", colType, "Activity", colCarbon, "kg CO2e", colPoints, "Pts"))

	body := b.list.View()
	if len(b.shown) == 0 {
		body = mutedStyle.Render("  no activities")
	}

	parts := []string{title, summary, header, body}
	if b.filtering || b.filter.Value() != "" {
		parts = append(parts, "Filter: "+b.filter.View())
	}
	if b.status != "" {
		parts = append(parts, mutedStyle.Render(b.status))
	}
	parts = append(parts, b.help.View(b.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func renderRow(a activity.Activity, selected bool) string {
	row := fmt.Sprintf("%-*s  %-*s  %-*s  %*s  %*d",
		colDate, a.Date,
		colCategory, truncate(a.CategoryName, colCategory),
		colType, truncate(a.ActivityType, colType),
		colCarbon, greenops.FormatFloat(a.CarbonKg, 2),
		colPoints, a.Points,
	)
	if selected {
		return selectedStyle.Render("> " + row)
	}
	return "  " + row
}

// RenderDetail draws one activity with its submitted details and carbon
// equivalents.
func RenderDetail(a activity.Activity) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("ACTIVITY DETAIL") + "\n\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label) + value + "\n")
	}
	row("ID", a.ID)
	row("Date", a.Date)
	row("Category", a.CategoryName)
	row("Activity", a.ActivityType)
	row("Footprint", greenops.FormatKg(a.CarbonKg))
	row("Points", fmt.Sprint(a.Points))

	if eq, err := greenops.Equivalents(a.CarbonKg); err == nil && !eq.IsEmpty {
		row("Equivalent", eq.CompactText)
	}

	if len(a.Details) > 0 {
		sb.WriteString("\n" + labelStyle.Render("Details") + "\n")
		for _, k := range slices.Sorted(maps.Keys(a.Details)) {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", k, a.Details[k]))
		}
	}
	return sb.String()
}
