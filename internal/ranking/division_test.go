package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoBandTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable([]Division{
		{ID: 1, Name: "Bronze", Level: 1, PointsMin: 0, PointsMax: 99},
		{ID: 2, Name: "Silver", Level: 2, PointsMin: 100, PointsMax: 249},
	})
	require.NoError(t, err)
	return table
}

func TestClassify_TwoBands(t *testing.T) {
	table := twoBandTable(t)

	assert.Equal(t, 1, table.Classify(99).ID)
	assert.Equal(t, 2, table.Classify(100).ID)
	assert.Equal(t, 1, table.Classify(0).ID)
	assert.Equal(t, 1, table.Classify(-40).ID, "negative ratings are treated as zero")
	assert.Equal(t, 1, table.Classify(99.5).ID, "fractional points belong to the lower band")
	assert.Equal(t, 2, table.Classify(5000).ID, "ratings above the top band clamp to it")
}

func TestClassify_DefaultTable(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		rating   float64
		expected string
	}{
		{0, "Padelino Starter"},
		{249, "Rookie Padel"},
		{1200, "Court Warrior"},
		{1199, "Fast Breaker"},
		{9499, "Master Padel"},
		{9500, "Grand Slam Legend"},
		{250000, "Grand Slam Legend"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, table.Classify(tt.rating).Name, "rating %v", tt.rating)
	}
}

func TestClassify_IsTotalAndMonotonic(t *testing.T) {
	table := DefaultTable()

	previous := 0
	for rating := 0.0; rating <= 100000; rating += 0.5 {
		level := table.Classify(rating).Level
		require.GreaterOrEqual(t, level, previous, "level decreased at rating %v", rating)
		previous = level
	}
	assert.Equal(t, 15, previous)
}

func TestClassify_GapFallsBackToHighestBand(t *testing.T) {
	table, err := NewTable([]Division{
		{ID: 1, Name: "Low", Level: 1, PointsMin: 0, PointsMax: 99},
		{ID: 2, Name: "High", Level: 2, PointsMin: 200, PointsMax: 299},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, table.Classify(150).ID)
}

func TestNewTable(t *testing.T) {
	t.Run("rejects an empty table", func(t *testing.T) {
		_, err := NewTable(nil)
		assert.ErrorIs(t, err, ErrEmptyDivisionTable)
	})

	t.Run("rejects overlapping bands", func(t *testing.T) {
		_, err := NewTable([]Division{
			{ID: 1, Name: "A", Level: 1, PointsMin: 0, PointsMax: 100},
			{ID: 2, Name: "B", Level: 2, PointsMin: 100, PointsMax: 200},
		})
		assert.ErrorIs(t, err, ErrOverlappingDivisions)
	})

	t.Run("orders bands and copies input", func(t *testing.T) {
		input := []Division{
			{ID: 2, Name: "B", Level: 2, PointsMin: 100, PointsMax: 199},
			{ID: 1, Name: "A", Level: 1, PointsMin: 0, PointsMax: 99},
		}
		table, err := NewTable(input)
		require.NoError(t, err)

		input[0].Name = "changed"
		divisions := table.Divisions()
		require.Len(t, divisions, 2)
		assert.Equal(t, "A", divisions[0].Name)
		assert.Equal(t, "B", divisions[1].Name)
	})
}

func TestDetectChange(t *testing.T) {
	table := twoBandTable(t)

	t.Run("promotion", func(t *testing.T) {
		change, ok := table.DetectChange("p1", 95, 105)
		require.True(t, ok)
		assert.Equal(t, "p1", change.PlayerID)
		assert.Equal(t, 1, change.OldDivision.ID)
		assert.Equal(t, 2, change.NewDivision.ID)
		assert.True(t, change.IsPromotion)
	})

	t.Run("relegation", func(t *testing.T) {
		change, ok := table.DetectChange("p1", 105, 95)
		require.True(t, ok)
		assert.False(t, change.IsPromotion)
		assert.Equal(t, 1, change.NewDivision.ID)
	})

	t.Run("same division emits nothing", func(t *testing.T) {
		_, ok := table.DetectChange("p1", 10, 90)
		assert.False(t, ok)
	})
}

func TestPointsToNext(t *testing.T) {
	table := twoBandTable(t)

	missing, ok := table.PointsToNext(40)
	require.True(t, ok)
	assert.Equal(t, 60.0, missing)

	_, ok = table.PointsToNext(150)
	assert.False(t, ok, "top band has no next division")
}
