//go:build integration
// +build integration

package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/hackathon-api/internal/config"
	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/event"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/domain/vote"
	"github.com/gravadigital/hackathon-api/internal/services"
	"github.com/gravadigital/hackathon-api/internal/storage/postgres"
)

// Integration tests that require a real PostgreSQL database
// Run with: go test -tags=integration

func testConfig() *config.Config {
	cfg := config.Load()
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}
	return cfg
}

func TestDatabaseConnection(t *testing.T) {
	db, err := postgres.Connect(testConfig())
	require.NoError(t, err, "Should be able to connect to test database")
	defer postgres.CloseDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping(), "Should be able to ping the database")
}

func TestDatabaseMigration(t *testing.T) {
	db, err := postgres.Connect(testConfig())
	require.NoError(t, err, "Should be able to connect to test database")
	defer postgres.CloseDB(db)

	assert.NoError(t, postgres.AutoMigrate(db), "Should be able to run migrations")
	assert.NoError(t, postgres.AutoMigrate(db), "Migrations should be idempotent")
}

func TestVotingRoundTrip(t *testing.T) {
	store, err := postgres.NewContainer(testConfig())
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	suffix := uuid.NewString()[:8]
	admin := "admin-" + suffix + "@example.com"
	owner := "owner-" + suffix + "@example.com"
	voter := "voter-" + suffix + "@example.com"

	svcs := services.New(store, services.Options{MaxIdeasPerEvent: 5})
	require.NoError(t, svcs.Users.SeedAdmins(ctx, []string{admin}))

	e, err := svcs.Events.Create(ctx, admin, services.CreateEventInput{
		Title:     "Integration " + suffix,
		EventDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	defer svcs.Events.Delete(ctx, admin, e.ID)

	i, err := svcs.Ideas.Submit(ctx, owner, idea.Draft{
		Title:       "Round trip",
		Description: "Checks the postgres repositories end to end",
		EventID:     e.ID,
	})
	require.NoError(t, err)

	_, err = svcs.Events.SetStage(ctx, admin, e.ID, event.StageVoting, nil)
	require.NoError(t, err)

	_, err = svcs.Voting.CastCategoryVote(ctx, voter, services.CategoryVoteInput{
		EventID:  e.ID,
		IdeaID:   i.ID,
		Category: vote.CategoryMostCreative.String(),
	})
	require.NoError(t, err)

	_, results, err := svcs.Events.SetResultsTime(ctx, admin, e.ID)
	require.NoError(t, err)

	byCategory := make(map[vote.Category]*vote.Result, len(results))
	for _, r := range results {
		byCategory[r.Category] = r
	}
	require.Contains(t, byCategory, vote.CategoryMostCreative)
	assert.Equal(t, i.ID, byCategory[vote.CategoryMostCreative].WinningIdeaID)
	assert.Equal(t, 1, byCategory[vote.CategoryMostCreative].Votes)
	assert.NotContains(t, byCategory, vote.CategoryMostTechnical)
}

type pgFixture struct {
	ctx    context.Context
	store  *postgres.Container
	svc    *services.Services
	admin  string
	owner  string
	suffix string
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	store, err := postgres.NewContainer(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	suffix := uuid.NewString()[:8]
	f := &pgFixture{
		ctx:    ctx,
		store:  store,
		svc:    services.New(store, services.Options{MaxIdeasPerEvent: 5}),
		admin:  "admin-" + suffix + "@example.com",
		owner:  "owner-" + suffix + "@example.com",
		suffix: suffix,
	}
	require.NoError(t, f.svc.Users.SeedAdmins(ctx, []string{f.admin}))
	return f
}

func (f *pgFixture) user(name string) string {
	return name + "-" + f.suffix + "@example.com"
}

func (f *pgFixture) event(t *testing.T, title string) *event.Event {
	t.Helper()
	e, err := f.svc.Events.Create(f.ctx, f.admin, services.CreateEventInput{
		Title:     title + " " + f.suffix,
		EventDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := f.svc.Events.Delete(f.ctx, f.admin, e.ID); err != nil && !common.IsNotFound(err) {
			t.Errorf("cleanup of event %d: %v", e.ID, err)
		}
	})
	return e
}

func (f *pgFixture) idea(t *testing.T, eventID uint, title string) *idea.Idea {
	t.Helper()
	i, err := f.svc.Ideas.Submit(f.ctx, f.owner, idea.Draft{
		Title:       title,
		Description: title + " description",
		EventID:     eventID,
	})
	require.NoError(t, err)
	return i
}

func (f *pgFixture) openVoting(t *testing.T, eventID uint) {
	t.Helper()
	_, err := f.svc.Events.SetStage(f.ctx, f.admin, eventID, event.StageVoting, nil)
	require.NoError(t, err)
}

func (f *pgFixture) vote(t *testing.T, voter string, eventID, ideaID uint) {
	t.Helper()
	_, err := f.svc.Voting.CastCategoryVote(f.ctx, voter, services.CategoryVoteInput{
		EventID:  eventID,
		IdeaID:   ideaID,
		Category: vote.CategoryMostCreative.String(),
	})
	require.NoError(t, err)
}

func TestPostgresCategoryVoteLastWriteWins(t *testing.T) {
	f := newPGFixture(t)
	e := f.event(t, "Last write")
	first := f.idea(t, e.ID, "First")
	second := f.idea(t, e.ID, "Second")
	f.openVoting(t, e.ID)

	voter := f.user("voter")
	f.vote(t, voter, e.ID, first.ID)
	f.vote(t, voter, e.ID, second.ID)

	mine, err := f.svc.Voting.MyVotes(f.ctx, voter, e.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, second.ID, mine[0].IdeaID)

	tallies, err := f.store.Votes().TallyCategory(f.ctx, e.ID, vote.CategoryMostCreative)
	require.NoError(t, err)
	assert.Equal(t, []vote.Tally{{IdeaID: second.ID, Votes: 1}}, tallies)
}

func TestPostgresCategoryVoteRequiresMembership(t *testing.T) {
	f := newPGFixture(t)
	e := f.event(t, "Members")
	other := f.event(t, "Elsewhere")
	outsider := f.idea(t, other.ID, "Outsider")

	v, err := vote.NewCategoryVote(f.user("voter"), e.ID, vote.CategoryMostCreative, outsider.ID)
	require.NoError(t, err)
	assert.Error(t, f.store.Votes().UpsertCategoryVote(f.ctx, v), "the vote trigger rejects ideas outside the event")
}

func TestPostgresRatingReplaced(t *testing.T) {
	f := newPGFixture(t)
	e := f.event(t, "Ratings")
	i := f.idea(t, e.ID, "Rated")

	voter := f.user("voter")
	_, err := f.svc.Voting.Rate(f.ctx, voter, i.ID, 7)
	require.NoError(t, err)
	_, err = f.svc.Voting.Rate(f.ctx, voter, i.ID, 9)
	require.NoError(t, err)

	summary, err := f.svc.Voting.IdeaRatings(f.ctx, i.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	require.NotNil(t, summary.Average)
	assert.InDelta(t, 9.0, *summary.Average, 0.0001)
}

func TestPostgresLikes(t *testing.T) {
	f := newPGFixture(t)
	e := f.event(t, "Likes")
	i := f.idea(t, e.ID, "Liked")
	fan := f.user("fan")

	liked, err := f.svc.Voting.Like(f.ctx, fan, i.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	_, err = f.svc.Voting.Like(f.ctx, fan, i.ID)
	assert.Equal(t, common.KindConflict, common.KindOf(err), "error: %v", err)

	_, err = f.svc.Voting.Unlike(f.ctx, f.user("stranger"), i.ID)
	assert.Equal(t, common.KindValidation, common.KindOf(err), "error: %v", err)

	stored, err := f.store.Ideas().GetByID(f.ctx, i.ID)
	require.NoError(t, err)
	count, err := f.store.Votes().CountLikes(f.ctx, i.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, count, int64(stored.Likes))

	unliked, err := f.svc.Voting.Unlike(f.ctx, fan, i.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)
}

func TestPostgresTieGoesToLowestID(t *testing.T) {
	f := newPGFixture(t)
	e := f.event(t, "Tie")
	first := f.idea(t, e.ID, "First")
	second := f.idea(t, e.ID, "Second")
	f.openVoting(t, e.ID)

	f.vote(t, f.user("b"), e.ID, second.ID)
	f.vote(t, f.user("a"), e.ID, first.ID)

	results, err := f.svc.Results.ComputeWinners(f.ctx, f.admin, e.ID)
	require.NoError(t, err)

	lowest := min(first.ID, second.ID)
	for _, r := range results {
		assert.Equal(t, lowest, r.WinningIdeaID, "category %s", r.Category)
		assert.Equal(t, 1, r.Votes)
	}
	assert.Len(t, results, 2)
}

func TestPostgresStaleResultRemovedOnRerun(t *testing.T) {
	f := newPGFixture(t)
	e := f.event(t, "Stale")
	i := f.idea(t, e.ID, "Briefly winning")
	f.openVoting(t, e.ID)

	voter := f.user("voter")
	f.vote(t, voter, e.ID, i.ID)

	results, err := f.svc.Results.ComputeWinners(f.ctx, f.admin, e.ID)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	require.NoError(t, f.svc.Voting.RemoveCategoryVote(f.ctx, voter, e.ID, vote.CategoryMostCreative.String()))

	results, err = f.svc.Results.ComputeWinners(f.ctx, f.admin, e.ID)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPostgresRemoveLastEventDeletesIdea(t *testing.T) {
	f := newPGFixture(t)
	first := f.event(t, "First")
	second := f.event(t, "Second")
	i := f.idea(t, first.ID, "Travelling")

	_, err := f.svc.Ideas.AddEvent(f.ctx, f.owner, i.ID, second.ID, idea.Override{Description: "Second take"})
	require.NoError(t, err)

	deleted, err := f.svc.Ideas.RemoveEvent(f.ctx, f.owner, i.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	detail, err := f.svc.Ideas.Get(f.ctx, i.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, detail.EventID)
	assert.Equal(t, "Second take", detail.Description)

	deleted, err = f.svc.Ideas.RemoveEvent(f.ctx, f.owner, i.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.svc.Ideas.Get(f.ctx, i.ID)
	assert.True(t, common.IsNotFound(err), "error: %v", err)
}

func TestPostgresDeleteEventKeepsIdeasEnteredElsewhere(t *testing.T) {
	f := newPGFixture(t)
	first := f.event(t, "First")
	second := f.event(t, "Second")
	only := f.idea(t, first.ID, "Only here")
	shared := f.idea(t, first.ID, "Shared")

	_, err := f.svc.Ideas.AddEvent(f.ctx, f.owner, shared.ID, second.ID, idea.Override{Description: "Shared second take"})
	require.NoError(t, err)

	err = f.store.Events().Delete(f.ctx, first.ID)
	assert.True(t, common.IsConflict(err), "origin ideas block a raw event delete: %v", err)

	require.NoError(t, f.svc.Events.Delete(f.ctx, f.admin, first.ID))

	_, err = f.svc.Ideas.Get(f.ctx, only.ID)
	assert.True(t, common.IsNotFound(err), "error: %v", err)

	kept, err := f.svc.Ideas.Get(f.ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, kept.EventID)
	assert.Equal(t, idea.Membership{second.ID}, kept.Membership)
	assert.Equal(t, "Shared second take", kept.Description)
}

func TestPostgresRemoveEventDropsResultsTheIdeaWon(t *testing.T) {
	f := newPGFixture(t)
	first := f.event(t, "First")
	second := f.event(t, "Second")
	i := f.idea(t, first.ID, "Winner")

	_, err := f.svc.Ideas.AddEvent(f.ctx, f.owner, i.ID, second.ID, idea.Override{Description: "Second take"})
	require.NoError(t, err)
	f.openVoting(t, second.ID)
	f.vote(t, f.user("voter"), second.ID, i.ID)

	results, err := f.svc.Results.ComputeWinners(f.ctx, f.admin, second.ID)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	_, err = f.svc.Ideas.RemoveEvent(f.ctx, f.owner, i.ID, second.ID)
	require.NoError(t, err)

	stored, err := f.svc.Results.EventResults(f.ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
