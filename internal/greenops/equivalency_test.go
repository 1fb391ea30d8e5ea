package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquivalents_SmallFootprint(t *testing.T) {
	got, err := Equivalents(1.0)
	require.NoError(t, err)

	assert.False(t, got.IsEmpty)
	require.Len(t, got.Equivalents, 2)
	assert.Equal(t, "5.2", got.Equivalents[0].FormattedValue)
	assert.Equal(t, "122", got.Equivalents[1].FormattedValue)
	assert.Equal(t, "Equivalent to driving ~5.2 miles or charging ~122 smartphones", got.DisplayText)
	assert.Equal(t, "(≈ 5.2 mi, 122 phones)", got.CompactText)
}

func TestEquivalents_AddsTreesAboveThreshold(t *testing.T) {
	got, err := Equivalents(19.2)
	require.NoError(t, err)

	require.Len(t, got.Equivalents, 4)
	assert.InDelta(t, 100.0, got.Equivalents[0].Value, 1e-9)
	assert.Equal(t, EquivalencyTreeSeedlings, got.Equivalents[2].Type)
	assert.Equal(t, "trees", got.Equivalents[2].Kind)
	assert.Equal(t, "(≈ 100 mi, 2,336 phones, 0.3 trees, 1.0 home-days)", got.CompactText)
}

func TestEquivalents_Edges(t *testing.T) {
	tests := []struct {
		name      string
		kg        float64
		wantErr   error
		wantEmpty bool
	}{
		{"zero", 0, nil, true},
		{"below threshold", 0.05, nil, true},
		{"at threshold", MinEquivalentKg, nil, false},
		{"negative", -1, ErrNegativeValue, true},
		{"nan", math.NaN(), ErrCalculationOverflow, true},
		{"inf", math.Inf(1), ErrCalculationOverflow, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Equivalents(tt.kg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantEmpty, got.IsEmpty)
		})
	}
}

func TestEquivalencyType_String(t *testing.T) {
	assert.Equal(t, "mi", EquivalencyMilesDriven.String())
	assert.Equal(t, "home-days", EquivalencyHomeDays.String())
	assert.Equal(t, "unknown", EquivalencyType(99).String())
}
