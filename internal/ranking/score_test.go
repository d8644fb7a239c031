package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []SetScore
	}{
		{"two sets", "6-0, 6-0", []SetScore{{6, 0}, {6, 0}}},
		{"three sets without spaces", "6-4,3-6,7-6", []SetScore{{6, 4}, {3, 6}, {7, 6}}},
		{"malformed segment is skipped", "6-4, abc, 6-3", []SetScore{{6, 4}, {6, 3}}},
		{"empty string", "", nil},
		{"nothing parseable", "six-love", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseScore(tt.input).Sets)
		})
	}
}

func TestMatchScore_GamesLostByWinner(t *testing.T) {
	ms := ParseScore("7-6, 4-6, 6-2")

	assert.Equal(t, 14, ms.GamesLostByWinner(true))
	assert.Equal(t, 17, ms.GamesLostByWinner(false))
	assert.Equal(t, 0, ParseScore("garbage").GamesLostByWinner(true))
}

func TestMatchScore_String(t *testing.T) {
	assert.Equal(t, "6-4, 3-6, 7-5", ParseScore(" 6-4 ,3-6, 7-5").String())
}

func TestSetScore_Complete(t *testing.T) {
	tests := []struct {
		set      SetScore
		expected bool
	}{
		{SetScore{6, 0}, true},
		{SetScore{4, 6}, true},
		{SetScore{6, 5}, false},
		{SetScore{7, 5}, true},
		{SetScore{6, 7}, true},
		{SetScore{7, 4}, false},
		{SetScore{5, 3}, false},
		{SetScore{8, 6}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.set.Complete(), "%d-%d", tt.set.Team1, tt.set.Team2)
	}
}

func TestMatchScore_Validate(t *testing.T) {
	require.NoError(t, ParseScore("6-4, 6-3").Validate(true))
	require.NoError(t, ParseScore("4-6, 7-5, 3-6").Validate(false))

	assert.ErrorIs(t, ParseScore("").Validate(true), ErrInvalidScore)
	assert.ErrorIs(t, ParseScore("6-0, 6-0, 6-0, 6-0").Validate(true), ErrInvalidScore)
	assert.ErrorIs(t, ParseScore("6-5, 6-0").Validate(true), ErrInvalidScore)
	assert.ErrorIs(t, ParseScore("6-4, 6-3").Validate(false), ErrInvalidScore, "declared winner lost both sets")
}
