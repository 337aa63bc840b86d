package vote

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
)

func TestSelectWinner(t *testing.T) {
	tests := []struct {
		name    string
		tallies []Tally
		want    Tally
		ok      bool
	}{
		{"no votes", nil, Tally{}, false},
		{"only zero counts", []Tally{{IdeaID: 3, Votes: 0}}, Tally{}, false},
		{"clear winner", []Tally{{IdeaID: 1, Votes: 1}, {IdeaID: 2, Votes: 3}}, Tally{IdeaID: 2, Votes: 3}, true},
		{"tie goes to lowest id", []Tally{{IdeaID: 9, Votes: 2}, {IdeaID: 4, Votes: 2}, {IdeaID: 7, Votes: 1}}, Tally{IdeaID: 4, Votes: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectWinner(tt.tallies)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountVotesAndRank(t *testing.T) {
	votes := []CategoryVote{
		{IdeaID: 2}, {IdeaID: 1}, {IdeaID: 2}, {IdeaID: 3}, {IdeaID: 1},
	}

	counted := CountVotes(votes)
	assert.Equal(t, []Tally{{1, 2}, {2, 2}, {3, 1}}, counted)

	ranked := Rank([]Tally{{3, 1}, {2, 2}, {1, 2}})
	assert.Equal(t, []Tally{{1, 2}, {2, 2}, {3, 1}}, ranked)
}

func TestNewResult(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	res, ok, err := NewResult(1, CategoryMostCreative, []Tally{{IdeaID: 1, Votes: 2}, {IdeaID: 2, Votes: 1}}, at)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint(1), res.WinningIdeaID)
	assert.Equal(t, 2, res.Votes)
	assert.Equal(t, at, res.CalculatedAt)

	var breakdown []Tally
	require.NoError(t, json.Unmarshal(res.Breakdown, &breakdown))
	assert.Equal(t, []Tally{{1, 2}, {2, 1}}, breakdown)

	res, ok, err = NewResult(1, CategoryMostTechnical, nil, at)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, res)
}

func TestValidateRating(t *testing.T) {
	for _, r := range []int{MinRating, 5, MaxRating} {
		assert.NoError(t, ValidateRating(r), "rating %d", r)
	}
	for _, r := range []int{0, 11, -1} {
		err := ValidateRating(r)
		require.Error(t, err, "rating %d", r)
		assert.Equal(t, common.KindValidation, common.KindOf(err))
	}
}

func TestNewRating(t *testing.T) {
	r, err := NewRating("  voter@example.com ", 4, 9)
	require.NoError(t, err)
	assert.Equal(t, "voter@example.com", r.UserEmail)

	_, err = NewRating("", 4, 9)
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	c, ok := CategoryForSubStage(2)
	require.True(t, ok)
	assert.Equal(t, CategoryMostTechnical, c)
	assert.Equal(t, 2, c.SubStage())

	_, ok = CategoryForSubStage(4)
	assert.False(t, ok)

	parsed, err := ParseCategory(" Most Impactful ")
	require.NoError(t, err)
	assert.Equal(t, CategoryMostImpactful, parsed)

	_, err = ParseCategory(string(CategoryHackathonWinner))
	assert.Error(t, err, "the derived category is not votable")
	_, err = ParseCategory("most creative")
	assert.Error(t, err, "categories are case sensitive")
}

func TestAverageScore(t *testing.T) {
	_, ok := AverageScore(nil)
	assert.False(t, ok)

	avg, ok := AverageScore([]int{7, 9, 8})
	require.True(t, ok)
	assert.InDelta(t, 8.0, avg, 1e-9)
}
