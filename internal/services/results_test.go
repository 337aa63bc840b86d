package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/vote"
)

func (f *fixture) vote(t *testing.T, voter string, eventID, ideaID uint, category vote.Category) {
	t.Helper()
	_, err := f.svc.Voting.CastCategoryVote(f.ctx, voter, CategoryVoteInput{EventID: eventID, IdeaID: ideaID, Category: category.String()})
	require.NoError(t, err)
}

func byCategory(results []*vote.Result) map[vote.Category]*vote.Result {
	out := make(map[vote.Category]*vote.Result, len(results))
	for _, r := range results {
		out[r.Category] = r
	}
	return out
}

func TestComputeWinners(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Spring")
	solar := f.idea(t, ownerEmail, e.ID, "Solar")
	wind := f.idea(t, ownerEmail, e.ID, "Wind")
	f.openVoting(t, e.ID, 1)

	f.vote(t, "a@example.com", e.ID, solar.ID, vote.CategoryMostCreative)
	f.vote(t, "b@example.com", e.ID, solar.ID, vote.CategoryMostCreative)
	f.vote(t, "c@example.com", e.ID, wind.ID, vote.CategoryMostCreative)

	_, err := f.svc.Results.ComputeWinners(f.ctx, voterEmail, e.ID)
	assertKind(t, common.KindForbidden, err)

	results, err := f.svc.Results.ComputeWinners(f.ctx, adminEmail, e.ID)
	require.NoError(t, err)

	got := byCategory(results)
	require.Len(t, got, 2)
	require.Contains(t, got, vote.CategoryMostCreative)
	assert.Equal(t, solar.ID, got[vote.CategoryMostCreative].WinningIdeaID)
	assert.Equal(t, 2, got[vote.CategoryMostCreative].Votes)
	require.Contains(t, got, vote.CategoryHackathonWinner)
	assert.Equal(t, solar.ID, got[vote.CategoryHackathonWinner].WinningIdeaID)
	assert.NotContains(t, got, vote.CategoryMostTechnical)
	assert.NotContains(t, got, vote.CategoryMostImpactful)

	again, err := f.svc.Results.ComputeWinners(f.ctx, adminEmail, e.ID)
	require.NoError(t, err)
	require.Len(t, again, len(results))
	for category, r := range byCategory(again) {
		assert.Equal(t, got[category].ID, r.ID, "rerun keeps the row for %s", category)
		assert.Equal(t, got[category].WinningIdeaID, r.WinningIdeaID)
		assert.Equal(t, got[category].Votes, r.Votes)
	}

	stored, err := f.svc.Results.EventResults(f.ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestComputeWinnersDropsStaleRows(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Spring")
	solar := f.idea(t, ownerEmail, e.ID, "Solar")
	f.openVoting(t, e.ID, 1)

	f.vote(t, voterEmail, e.ID, solar.ID, vote.CategoryMostCreative)
	results, err := f.svc.Results.ComputeWinners(f.ctx, adminEmail, e.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NoError(t, f.svc.Voting.RemoveCategoryVote(f.ctx, voterEmail, e.ID, vote.CategoryMostCreative.String()))

	results, err = f.svc.Results.ComputeWinners(f.ctx, adminEmail, e.ID)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestComputeWinnersTieGoesToLowestID(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Spring")
	first := f.idea(t, ownerEmail, e.ID, "Solar")
	second := f.idea(t, ownerEmail, e.ID, "Wind")
	f.openVoting(t, e.ID, 1)

	f.vote(t, "a@example.com", e.ID, second.ID, vote.CategoryMostCreative)
	f.vote(t, "b@example.com", e.ID, first.ID, vote.CategoryMostCreative)

	results, err := f.svc.Results.ComputeWinners(f.ctx, adminEmail, e.ID)
	require.NoError(t, err)
	got := byCategory(results)
	assert.Equal(t, first.ID, got[vote.CategoryMostCreative].WinningIdeaID)
	assert.Equal(t, 1, got[vote.CategoryMostCreative].Votes)
}

func TestComputeWinnersUnknownEvent(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Results.ComputeWinners(f.ctx, adminEmail, 42)
	assertKind(t, common.KindNotFound, err)
}

func TestLeaderboardAndUserWins(t *testing.T) {
	f := newFixture(t)
	spring := f.event(t, "Spring")
	autumn := f.event(t, "Autumn")
	solar := f.idea(t, ownerEmail, spring.ID, "Solar")
	wind := f.idea(t, "other@example.com", autumn.ID, "Wind")

	_, err := f.svc.Ideas.AddContributor(f.ctx, "other@example.com", wind.ID, 0, "ana@example.com")
	require.NoError(t, err)

	f.openVoting(t, spring.ID, 1)
	f.openVoting(t, autumn.ID, 1)
	f.vote(t, "a@example.com", spring.ID, solar.ID, vote.CategoryMostCreative)
	f.vote(t, "a@example.com", autumn.ID, wind.ID, vote.CategoryMostCreative)
	f.vote(t, "b@example.com", autumn.ID, wind.ID, vote.CategoryMostCreative)

	_, err = f.svc.Results.ComputeWinners(f.ctx, adminEmail, spring.ID)
	require.NoError(t, err)
	_, err = f.svc.Results.ComputeWinners(f.ctx, adminEmail, autumn.ID)
	require.NoError(t, err)

	board, err := f.svc.Results.Leaderboard(f.ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, wind.ID, board[0].WinningIdeaID)
	assert.Equal(t, "Wind", board[0].IdeaTitle)
	assert.Equal(t, "Autumn", board[0].EventTitle)
	assert.Equal(t, []string{"ana@example.com"}, board[0].Contributors)
	assert.Equal(t, solar.ID, board[1].WinningIdeaID)

	top, err := f.svc.Results.Leaderboard(f.ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	wins, err := f.svc.Results.UserWins(f.ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, wins, 1)
	assert.Equal(t, wind.ID, wins[0].WinningIdeaID)

	wins, err = f.svc.Results.UserWins(f.ctx, ownerEmail)
	require.NoError(t, err)
	require.Len(t, wins, 1)
	assert.Equal(t, solar.ID, wins[0].WinningIdeaID)

	wins, err = f.svc.Results.UserWins(f.ctx, "ana@example")
	require.NoError(t, err)
	assert.Empty(t, wins, "partial emails never match")

	_, err = f.svc.Results.UserWins(f.ctx, "  ")
	assertKind(t, common.KindValidation, err)
}
