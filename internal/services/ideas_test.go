package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/domain/vote"
)

func ideaOverride(description string) idea.Override {
	return idea.Override{Description: description}
}

func strPtr(s string) *string { return &s }

type fakeImages struct {
	keys []string
	body string
}

func (f *fakeImages) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	f.body = string(data)
	return "https://cdn.example.com/" + key, nil
}

func TestSubmitIdea(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Spring")

	i := f.idea(t, " "+ownerEmail+" ", e.ID, "Solar")
	assert.Equal(t, ownerEmail, i.Email)
	assert.Equal(t, idea.Membership{e.ID}, i.Membership)

	_, err := f.svc.Ideas.Submit(f.ctx, ownerEmail, idea.Draft{Title: "Ghost", Description: "x", EventID: 999})
	assertKind(t, common.KindNotFound, err)

	_, err = f.svc.Ideas.Submit(f.ctx, "", idea.Draft{Title: "Anon", Description: "x", EventID: e.ID})
	assertKind(t, common.KindForbidden, err)

	f.openVoting(t, e.ID, 1)
	_, err = f.svc.Ideas.Submit(f.ctx, ownerEmail, idea.Draft{Title: "Late", Description: "x", EventID: e.ID})
	assertKind(t, common.KindValidation, err)
}

func TestSubmitIdeaLimit(t *testing.T) {
	f := newFixture(t, Options{MaxIdeasPerEvent: 2})
	e := f.event(t, "Spring")
	other := f.event(t, "Autumn")

	f.idea(t, ownerEmail, e.ID, "One")
	f.idea(t, ownerEmail, e.ID, "Two")

	_, err := f.svc.Ideas.Submit(f.ctx, ownerEmail, idea.Draft{Title: "Three", Description: "x", EventID: e.ID})
	assertKind(t, common.KindValidation, err)
	assert.Equal(t, "You can only submit up to 2 ideas per event.", common.MessageOf(err))

	f.idea(t, ownerEmail, other.ID, "Elsewhere")
	f.idea(t, "someone@example.com", e.ID, "Someone else")
}

func TestUpdateIdea(t *testing.T) {
	f := newFixture(t)
	first := f.event(t, "First")
	second := f.event(t, "Second")
	i := f.idea(t, ownerEmail, first.ID, "Solar")

	_, err := f.svc.Ideas.Update(f.ctx, "stranger@example.com", i.ID, UpdateIdeaInput{Title: strPtr("Hijack")})
	assertKind(t, common.KindForbidden, err)

	view, err := f.svc.Ideas.Update(f.ctx, ownerEmail, i.ID, UpdateIdeaInput{
		Title:       strPtr("Solar v2"),
		Description: strPtr("Better panels"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Solar v2", view.Title)
	assert.Equal(t, "Better panels", view.Description)
	assert.False(t, view.EventSpecific)

	_, err = f.svc.Ideas.Update(f.ctx, adminEmail, i.ID, UpdateIdeaInput{EventID: second.ID, Description: strPtr("x")})
	assertKind(t, common.KindNotFound, err)

	_, err = f.svc.Ideas.AddEvent(f.ctx, ownerEmail, i.ID, second.ID, ideaOverride("Second take"))
	require.NoError(t, err)

	view, err = f.svc.Ideas.Update(f.ctx, adminEmail, i.ID, UpdateIdeaInput{EventID: second.ID, Description: strPtr("Second take, edited")})
	require.NoError(t, err)
	assert.True(t, view.EventSpecific)
	assert.Equal(t, "Second take, edited", view.Description)

	base, err := f.svc.Ideas.ViewForEvent(f.ctx, i.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Better panels", base.Description, "event-specific edits leave the base fields alone")
}

func TestAddEventRequiresSubmissionStage(t *testing.T) {
	f := newFixture(t)
	first := f.event(t, "First")
	second := f.event(t, "Second")
	i := f.idea(t, ownerEmail, first.ID, "Solar")
	f.openVoting(t, second.ID, 1)

	_, err := f.svc.Ideas.AddEvent(f.ctx, ownerEmail, i.ID, second.ID, ideaOverride("Too late"))
	assertKind(t, common.KindValidation, err)

	_, err = f.svc.Ideas.AddEvent(f.ctx, ownerEmail, i.ID, first.ID, idea.Override{})
	assertKind(t, common.KindValidation, err)
}

func TestRemoveEventPromotesNextOrigin(t *testing.T) {
	f := newFixture(t)
	first := f.event(t, "First")
	second := f.event(t, "Second")
	i := f.idea(t, ownerEmail, first.ID, "Solar")

	_, err := f.svc.Ideas.AddEvent(f.ctx, ownerEmail, i.ID, second.ID, ideaOverride("Second take"))
	require.NoError(t, err)

	deleted, err := f.svc.Ideas.RemoveEvent(f.ctx, ownerEmail, i.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	detail, err := f.svc.Ideas.Get(f.ctx, i.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, detail.EventID)
	assert.Equal(t, "Second", detail.EventTitle)
	assert.Equal(t, "Second take", detail.Description)
	assert.Equal(t, idea.Membership{second.ID}, detail.Membership)

	view, err := f.svc.Ideas.ViewForEvent(f.ctx, i.ID, second.ID)
	require.NoError(t, err)
	assert.False(t, view.EventSpecific, "the promoted metadata is folded into the base fields")

	deleted, err = f.svc.Ideas.RemoveEvent(f.ctx, ownerEmail, i.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.svc.Ideas.Get(f.ctx, i.ID)
	assertKind(t, common.KindNotFound, err)
}

func TestRemoveEventDropsVotesInThatEvent(t *testing.T) {
	f := newFixture(t)
	first := f.event(t, "First")
	second := f.event(t, "Second")
	i := f.idea(t, ownerEmail, first.ID, "Solar")

	_, err := f.svc.Ideas.AddEvent(f.ctx, ownerEmail, i.ID, second.ID, ideaOverride("Second take"))
	require.NoError(t, err)
	f.openVoting(t, second.ID, 1)

	_, err = f.svc.Voting.CastCategoryVote(f.ctx, "voter@example.com", CategoryVoteInput{
		EventID: second.ID, IdeaID: i.ID, Category: string(vote.CategoryMostCreative),
	})
	require.NoError(t, err)

	_, err = f.svc.Ideas.RemoveEvent(f.ctx, "stranger@example.com", i.ID, second.ID)
	assertKind(t, common.KindForbidden, err)

	deleted, err := f.svc.Ideas.RemoveEvent(f.ctx, ownerEmail, i.ID, second.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	votes, err := f.svc.Voting.MyVotes(f.ctx, "voter@example.com", second.ID)
	require.NoError(t, err)
	assert.Empty(t, votes)

	_, err = f.svc.Ideas.ViewForEvent(f.ctx, i.ID, second.ID)
	assertKind(t, common.KindNotFound, err)
}

func TestRemoveEventDropsResultsTheIdeaWon(t *testing.T) {
	f := newFixture(t)
	first := f.event(t, "First")
	second := f.event(t, "Second")
	solar := f.idea(t, ownerEmail, first.ID, "Solar")
	wind := f.idea(t, ownerEmail, second.ID, "Wind")

	_, err := f.svc.Ideas.AddEvent(f.ctx, ownerEmail, solar.ID, second.ID, ideaOverride("Second take"))
	require.NoError(t, err)
	f.openVoting(t, second.ID, 1)
	f.vote(t, "a@example.com", second.ID, solar.ID, vote.CategoryMostCreative)
	f.vote(t, "b@example.com", second.ID, wind.ID, vote.CategoryMostTechnical)

	results, err := f.svc.Results.ComputeWinners(f.ctx, adminEmail, second.ID)
	require.NoError(t, err)
	require.Contains(t, byCategory(results), vote.CategoryMostCreative)

	_, err = f.svc.Ideas.RemoveEvent(f.ctx, ownerEmail, solar.ID, second.ID)
	require.NoError(t, err)

	stored, err := f.svc.Results.EventResults(f.ctx, second.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored)
	for _, r := range stored {
		assert.NotEqual(t, solar.ID, r.WinningIdeaID, "category %s", r.Category)
	}
	assert.Contains(t, byCategory(stored), vote.CategoryMostTechnical)
}

func TestAddEventOnOriginUpdatesBaseIdea(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Spring")
	i := f.idea(t, ownerEmail, e.ID, "Solar")

	view, err := f.svc.Ideas.AddEvent(f.ctx, ownerEmail, i.ID, e.ID, idea.Override{
		Description:  "Reworked pitch",
		Technologies: []string{"Go"},
		IsBuilt:      true,
	})
	require.NoError(t, err)
	assert.False(t, view.EventSpecific)
	assert.Equal(t, "Reworked pitch", view.Description)

	_, err = f.svc.Ideas.Update(f.ctx, ownerEmail, i.ID, UpdateIdeaInput{Description: strPtr("Final pitch")})
	require.NoError(t, err)

	all, err := f.svc.Ideas.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Final pitch", all[0].Description)
	assert.Equal(t, []string{"Go"}, []string(all[0].Technologies))
	assert.True(t, all[0].IsBuilt)
	assert.Equal(t, idea.Membership{e.ID}, all[0].Membership)

	resolved, err := f.svc.Ideas.ViewForEvent(f.ctx, i.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, resolved.EventSpecific)
	assert.Equal(t, "Final pitch", resolved.Description)
}

func TestAddContributor(t *testing.T) {
	f := newFixture(t)
	first := f.event(t, "First")
	second := f.event(t, "Second")
	i := f.idea(t, ownerEmail, first.ID, "Solar")

	view, err := f.svc.Ideas.AddContributor(f.ctx, ownerEmail, i.ID, 0, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@example.com"}, view.Contributors)

	_, err = f.svc.Ideas.AddContributor(f.ctx, ownerEmail, i.ID, first.ID, "ana@example.com")
	assertKind(t, common.KindValidation, err)
	assert.ErrorIs(t, err, idea.ErrContributorExists)

	_, err = f.svc.Ideas.AddEvent(f.ctx, ownerEmail, i.ID, second.ID, ideaOverride("Second take"))
	require.NoError(t, err)

	view, err = f.svc.Ideas.AddContributor(f.ctx, ownerEmail, i.ID, second.ID, "bo@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"bo@example.com"}, view.Contributors)

	base, err := f.svc.Ideas.ViewForEvent(f.ctx, i.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@example.com"}, base.Contributors)

	contributed, err := f.svc.Ideas.ListByContributor(f.ctx, "bo@example.com")
	require.NoError(t, err)
	require.Len(t, contributed, 1)
	assert.Equal(t, i.ID, contributed[0].ID)
}

func TestUploadImage(t *testing.T) {
	images := &fakeImages{}
	f := newFixture(t, Options{MaxIdeasPerEvent: 5, MaxImageSize: 1024, Images: images})
	e := f.event(t, "Spring")
	i := f.idea(t, ownerEmail, e.ID, "Solar")

	view, err := f.svc.Ideas.UploadImage(f.ctx, ownerEmail, i.ID, ImageUpload{
		Name:        "panel.png",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("\x89PNG"),
	})
	require.NoError(t, err)
	require.Len(t, images.keys, 1)
	assert.True(t, strings.HasPrefix(images.keys[0], "ideas/"))
	assert.True(t, strings.HasSuffix(images.keys[0], ".png"))
	assert.Equal(t, "https://cdn.example.com/"+images.keys[0], view.ImageURL)
	assert.Equal(t, "\x89PNG", images.body)

	_, err = f.svc.Ideas.UploadImage(f.ctx, ownerEmail, i.ID, ImageUpload{Name: "doc.pdf", ContentType: "application/pdf", Size: 4, Body: strings.NewReader("%PDF")})
	assertKind(t, common.KindValidation, err)

	_, err = f.svc.Ideas.UploadImage(f.ctx, ownerEmail, i.ID, ImageUpload{Name: "big.png", ContentType: "image/png", Size: 2048, Body: strings.NewReader("x")})
	assertKind(t, common.KindValidation, err)

	_, err = f.svc.Ideas.UploadImage(f.ctx, "stranger@example.com", i.ID, ImageUpload{Name: "p.png", ContentType: "image/png", Size: 4, Body: strings.NewReader("x")})
	assertKind(t, common.KindForbidden, err)
}

func TestUploadImageWithoutStore(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Spring")
	i := f.idea(t, ownerEmail, e.ID, "Solar")

	_, err := f.svc.Ideas.UploadImage(f.ctx, ownerEmail, i.ID, ImageUpload{Name: "p.png", ContentType: "image/png", Size: 4, Body: strings.NewReader("x")})
	assertKind(t, common.KindUnavailable, err)
}

func TestDeleteIdea(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Spring")
	i := f.idea(t, ownerEmail, e.ID, "Solar")

	assertKind(t, common.KindForbidden, f.svc.Ideas.Delete(f.ctx, "stranger@example.com", i.ID))
	require.NoError(t, f.svc.Ideas.Delete(f.ctx, adminEmail, i.ID))
	assertKind(t, common.KindNotFound, f.svc.Ideas.Delete(f.ctx, adminEmail, i.ID))
}
