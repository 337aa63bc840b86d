package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/contributor"
)

const requesterEmail = "helper@example.com"

func TestCreateContributorRequest(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Spring")
	other := f.event(t, "Autumn")
	i := f.idea(t, ownerEmail, e.ID, "Solar")

	_, err := f.svc.Contributors.Create(f.ctx, ownerEmail, CreateRequestInput{IdeaID: i.ID, EventID: e.ID})
	assertKind(t, common.KindValidation, err)

	_, err = f.svc.Contributors.Create(f.ctx, requesterEmail, CreateRequestInput{IdeaID: i.ID, EventID: other.ID})
	assertKind(t, common.KindNotFound, err)

	_, err = f.svc.Contributors.Create(f.ctx, requesterEmail, CreateRequestInput{IdeaID: i.ID})
	assertKind(t, common.KindValidation, err)

	req, err := f.svc.Contributors.Create(f.ctx, requesterEmail, CreateRequestInput{IdeaID: i.ID, EventID: e.ID, Message: " I can help "})
	require.NoError(t, err)
	assert.Equal(t, contributor.StatusPending, req.Status)
	assert.Equal(t, "I can help", req.Message)

	_, err = f.svc.Contributors.Create(f.ctx, requesterEmail, CreateRequestInput{IdeaID: i.ID, EventID: e.ID})
	assertKind(t, common.KindValidation, err)

	_, err = f.svc.Ideas.AddContributor(f.ctx, ownerEmail, i.ID, 0, "ana@example.com")
	require.NoError(t, err)
	_, err = f.svc.Contributors.Create(f.ctx, "ana@example.com", CreateRequestInput{IdeaID: i.ID, EventID: e.ID})
	assertKind(t, common.KindValidation, err)

	pending, err := f.svc.Contributors.Pending(f.ctx, i.ID, e.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, req.ID, pending[0].ID)

	mine, err := f.svc.Contributors.Mine(f.ctx, requesterEmail)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestAcceptContributorRequest(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Spring")
	i := f.idea(t, ownerEmail, e.ID, "Solar")

	req, err := f.svc.Contributors.Create(f.ctx, requesterEmail, CreateRequestInput{IdeaID: i.ID, EventID: e.ID})
	require.NoError(t, err)

	_, err = f.svc.Contributors.Accept(f.ctx, "stranger@example.com", req.ID)
	assertKind(t, common.KindForbidden, err)

	accepted, err := f.svc.Contributors.Accept(f.ctx, ownerEmail, req.ID)
	require.NoError(t, err)
	assert.Equal(t, contributor.StatusAccepted, accepted.Status)
	assert.NotNil(t, accepted.RespondedAt)

	view, err := f.svc.Ideas.ViewForEvent(f.ctx, i.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{requesterEmail}, view.Contributors)

	_, err = f.svc.Contributors.Accept(f.ctx, ownerEmail, req.ID)
	assertKind(t, common.KindNotFound, err)
	_, err = f.svc.Contributors.Decline(f.ctx, ownerEmail, req.ID)
	assertKind(t, common.KindNotFound, err)

	_, err = f.svc.Contributors.Accept(f.ctx, ownerEmail, 999)
	assertKind(t, common.KindNotFound, err)
}

func TestAcceptIntoEventSpecificList(t *testing.T) {
	f := newFixture(t)
	first := f.event(t, "First")
	second := f.event(t, "Second")
	i := f.idea(t, ownerEmail, first.ID, "Solar")
	_, err := f.svc.Ideas.AddEvent(f.ctx, ownerEmail, i.ID, second.ID, ideaOverride("Second take"))
	require.NoError(t, err)

	req, err := f.svc.Contributors.Create(f.ctx, requesterEmail, CreateRequestInput{IdeaID: i.ID, EventID: second.ID})
	require.NoError(t, err)
	_, err = f.svc.Contributors.Accept(f.ctx, adminEmail, req.ID)
	require.NoError(t, err)

	view, err := f.svc.Ideas.ViewForEvent(f.ctx, i.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{requesterEmail}, view.Contributors)

	base, err := f.svc.Ideas.ViewForEvent(f.ctx, i.ID, first.ID)
	require.NoError(t, err)
	assert.Empty(t, base.Contributors)
}

func TestAcceptWhenAlreadyListed(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Spring")
	i := f.idea(t, ownerEmail, e.ID, "Solar")

	req, err := f.svc.Contributors.Create(f.ctx, requesterEmail, CreateRequestInput{IdeaID: i.ID, EventID: e.ID})
	require.NoError(t, err)
	_, err = f.svc.Ideas.AddContributor(f.ctx, ownerEmail, i.ID, 0, requesterEmail)
	require.NoError(t, err)

	accepted, err := f.svc.Contributors.Accept(f.ctx, ownerEmail, req.ID)
	require.NoError(t, err)
	assert.Equal(t, contributor.StatusAccepted, accepted.Status)

	view, err := f.svc.Ideas.ViewForEvent(f.ctx, i.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{requesterEmail}, view.Contributors)

	second, err := f.svc.Contributors.Create(f.ctx, "late@example.com", CreateRequestInput{IdeaID: i.ID, EventID: e.ID})
	require.NoError(t, err)
	_, err = f.svc.Ideas.AddContributor(f.ctx, ownerEmail, i.ID, 0, "late@example.com")
	require.NoError(t, err)
	_, err = f.svc.Ideas.AddContributor(f.ctx, ownerEmail, i.ID, 0, "late@example.com")
	assertKind(t, common.KindValidation, err)

	accepted, err = f.svc.Contributors.Accept(f.ctx, ownerEmail, second.ID)
	require.NoError(t, err, "a listed requester is accepted even though the contributor list rejects the repeat")
	assert.Equal(t, contributor.StatusAccepted, accepted.Status)
}

func TestDeclineAndProjectQueues(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, "Spring")
	mine := f.idea(t, ownerEmail, e.ID, "Solar")
	theirs := f.idea(t, "other@example.com", e.ID, "Wind")

	declined, err := f.svc.Contributors.Create(f.ctx, requesterEmail, CreateRequestInput{IdeaID: mine.ID, EventID: e.ID})
	require.NoError(t, err)
	_, err = f.svc.Contributors.Create(f.ctx, "bo@example.com", CreateRequestInput{IdeaID: mine.ID, EventID: e.ID})
	require.NoError(t, err)
	_, err = f.svc.Contributors.Create(f.ctx, requesterEmail, CreateRequestInput{IdeaID: theirs.ID, EventID: e.ID})
	require.NoError(t, err)

	count, err := f.svc.Contributors.PendingCount(f.ctx, ownerEmail)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	out, err := f.svc.Contributors.Decline(f.ctx, ownerEmail, declined.ID)
	require.NoError(t, err)
	assert.Equal(t, contributor.StatusDeclined, out.Status)

	view, err := f.svc.Ideas.ViewForEvent(f.ctx, mine.ID, e.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Contributors)

	projects, err := f.svc.Contributors.ForMyProjects(f.ctx, ownerEmail)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "bo@example.com", projects[0].RequesterEmail)

	count, err = f.svc.Contributors.PendingCount(f.ctx, ownerEmail)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	all, err := f.svc.Contributors.ForMyProjects(f.ctx, adminEmail)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	count, err = f.svc.Contributors.PendingCount(f.ctx, adminEmail)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = f.svc.Contributors.PendingCount(f.ctx, "")
	assertKind(t, common.KindForbidden, err)
}
