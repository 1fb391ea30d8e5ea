package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []Entry {
	return []Entry{
		{UserID: "u1", Username: "ada", TotalPoints: 100, TotalCarbonKg: 130},
		{UserID: "u2", Username: "bob", TotalPoints: 200, TotalCarbonKg: 150},
		{UserID: "u3", Username: "", TotalPoints: 50, TotalCarbonKg: 10},
		{UserID: "u4", Username: "cy", TotalPoints: 100, TotalCarbonKg: 5},
	}
}

func TestBuild_ByPoints(t *testing.T) {
	in := sample()
	b := Build(in, SortByPoints, "u4")

	ids := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		ids[i] = e.UserID
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, []string{"u2", "u1", "u4", "u3"}, ids, "ties break on username")
	assert.Equal(t, 3, b.UserRank)
	assert.Equal(t, 75, b.TopPercent)
	assert.Zero(t, in[0].Rank, "input is not mutated")
}

func TestBuild_ByCarbon(t *testing.T) {
	b := Build(sample(), SortByCarbon, "u2")
	assert.Equal(t, "u2", b.Entries[0].UserID)
	assert.Equal(t, "u4", b.Entries[3].UserID)
	assert.Equal(t, 1, b.UserRank)
	assert.Equal(t, 25, b.TopPercent)
}

func TestBuild_UserAbsent(t *testing.T) {
	b := Build(sample(), SortByPoints, "nobody")
	assert.Zero(t, b.UserRank)
	assert.Zero(t, b.TopPercent)

	empty := Build(nil, SortByPoints, "u1")
	assert.Empty(t, empty.Entries)
	assert.Zero(t, empty.UserRank)
}

func TestParseSortBy(t *testing.T) {
	got, err := ParseSortBy(" Carbon ")
	require.NoError(t, err)
	assert.Equal(t, SortByCarbon, got)

	got, err = ParseSortBy("")
	require.NoError(t, err)
	assert.Equal(t, SortByPoints, got)

	_, err = ParseSortBy("speed")
	var invalid ErrInvalidSort
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "speed", invalid.Value)
}

func TestEntryDisplayNameAndTop(t *testing.T) {
	assert.Equal(t, "Anonymous User", Entry{}.DisplayName())
	assert.Equal(t, "ada", Entry{Username: "ada"}.DisplayName())

	b := Build(sample(), SortByPoints, "")
	assert.Len(t, b.Top(2), 2)
	assert.Len(t, b.Top(0), 4)
	assert.Len(t, b.Top(10), 4)
}
