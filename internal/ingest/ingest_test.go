package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/batch"
	"github.com/rshade/ecoquest/internal/store"
)

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

var alice = activity.Session{UserID: "alice", Username: "alice"}

func newTestService(t *testing.T) *activity.Service {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "ecoquest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return activity.NewService(st, activity.WithClock(func() time.Time { return testNow }))
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":       FormatJSON,
		"a.NDJSON":     FormatNDJSON,
		"dir/a.jsonl":  FormatNDJSON,
		"a.yaml":       FormatYAML,
		"trip.log.yml": FormatYAML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("a.csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParse(t *testing.T) {
	want := []Record{
		{
			Category:     "Transportation",
			ActivityType: "commute",
			Date:         "2024-03-14",
			Details:      map[string]any{"mode": "bike", "distance": json.Number("12")},
		},
		{Category: "2", ActivityType: "lunch", Details: map[string]any{"meal_type": "vegan"}},
	}

	tests := []struct {
		name   string
		format Format
		input  string
		want   []Record
	}{
		{
			name:   "json list",
			format: FormatJSON,
			input: `[
  {"category": "Transportation", "activity_type": "commute", "date": "2024-03-14",
   "details": {"mode": "bike", "distance": 12}},
  {"category": 2, "activity_type": "lunch", "details": {"meal_type": "vegan"}}
]`,
			want: want,
		},
		{
			name:   "json envelope",
			format: FormatJSON,
			input: `{"activities": [
  {"category": "Transportation", "activity_type": "commute", "date": "2024-03-14",
   "details": {"mode": "bike", "distance": 12}},
  {"category": "2", "activity_type": "lunch", "details": {"meal_type": "vegan"}}
]}`,
			want: want,
		},
		{
			name:   "ndjson skips blank lines",
			format: FormatNDJSON,
			input: `{"category": "Transportation", "activity_type": "commute", "date": "2024-03-14", "details": {"mode": "bike", "distance": 12}}

{"category": 2, "activity_type": "lunch", "details": {"meal_type": "vegan"}}
`,
			want: want,
		},
		{
			name:   "yaml list",
			format: FormatYAML,
			input: `
- category: Transportation
  activity_type: commute
  date: 2024-03-14
  details: {mode: bike, distance: 12}
- category: 2
  activity_type: lunch
  details: {meal_type: vegan}
`,
			want: []Record{
				{
					Category:     "Transportation",
					ActivityType: "commute",
					Date:         "2024-03-14",
					Details:      map[string]any{"mode": "bike", "distance": 12},
				},
				want[1],
			},
		},
		{name: "empty json", format: FormatJSON, input: "  ", want: nil},
		{name: "empty yaml", format: FormatYAML, input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"category": "Food"}`+"\n"+`{"category": [1]}`), FormatNDJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = Parse(strings.NewReader("- category: {a: b}\n"), FormatYAML)
	require.Error(t, err)

	_, err = Parse(strings.NewReader("[]"), Format("csv"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.yaml")
	require.NoError(t, os.WriteFile(path, []byte("activities:\n  - category: Food\n    activity_type: dinner\n"), 0o600))

	got, err := ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []Record{{Category: "Food", ActivityType: "dinner"}}, got)

	_, err = ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	records := []Record{
		{Category: "Transportation", ActivityType: "drive", Details: map[string]any{"mode": "car", "distance": 100}},
		{Category: "Gardening", ActivityType: "compost"},
		{Category: "food", ActivityType: "lunch", Details: map[string]any{"meal_type": "vegan", "servings": 1}},
		{Category: "3", ActivityType: "", Details: nil},
		{Category: "3", ActivityType: "heating", Date: "2024-03-10", Details: map[string]any{"energy_type": "renewable"}},
	}

	var snaps []batch.Snapshot
	sum, err := Import(ctx, svc, alice, records, Options{
		BatchSize:  2,
		OnProgress: func(s batch.Snapshot) { snaps = append(snaps, s) },
	})
	require.NoError(t, err)

	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 3, sum.Imported)
	assert.Equal(t, 19.7, sum.CarbonKg)
	assert.Equal(t, 10+25+25, sum.Points)
	assert.Equal(t, 2, sum.Defaulted, "car passengers and energy amount")
	require.Len(t, sum.Failed, 2)
	assert.Equal(t, 2, sum.Failed[0].Row)
	assert.ErrorIs(t, sum.Failed[0], activity.ErrUnknownCategory)
	assert.Equal(t, 4, sum.Failed[1].Row)
	assert.ErrorIs(t, sum.Failed[1], activity.ErrEmptyActivityType)
	require.Len(t, snaps, 3)
	assert.True(t, snaps[2].Complete())

	u, err := svc.Profile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 60, u.TotalPoints)

	acts, err := svc.List(ctx, alice, "", "")
	require.NoError(t, err)
	assert.Len(t, acts, 3)
}

func TestImport_Strict(t *testing.T) {
	svc := newTestService(t)
	records := []Record{
		{Category: "Food", ActivityType: "lunch"},
		{Category: "Nope", ActivityType: "x"},
		{Category: "Food", ActivityType: "dinner"},
	}

	sum, err := Import(context.Background(), svc, alice, records, Options{Strict: true})
	require.Error(t, err)

	var rowErr RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, 1, sum.Imported)
}

func TestImport_Guards(t *testing.T) {
	svc := newTestService(t)

	sum, err := Import(context.Background(), svc, alice, nil, Options{})
	require.NoError(t, err)
	assert.Zero(t, sum.Total)

	_, err = Import(context.Background(), svc, activity.Session{}, []Record{{}}, Options{})
	assert.ErrorIs(t, err, activity.ErrNotAuthenticated)

	_, err = Import(context.Background(), svc, alice, []Record{{}}, Options{BatchSize: -1})
	assert.ErrorIs(t, err, batch.ErrInvalidBatchSize)
}
