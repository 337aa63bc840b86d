package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/event"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/storage/memory"
)

const (
	adminEmail = "admin@example.com"
	ownerEmail = "owner@example.com"
)

type fixture struct {
	ctx   context.Context
	svc   *Services
	store *memory.Container
}

func newFixture(t *testing.T, opts ...Options) *fixture {
	t.Helper()
	o := Options{MaxIdeasPerEvent: 5}
	if len(opts) > 0 {
		o = opts[0]
	}
	f := &fixture{ctx: context.Background(), store: memory.NewContainer()}
	f.svc = New(f.store, o)
	require.NoError(t, f.svc.Users.SeedAdmins(f.ctx, []string{adminEmail}))
	return f
}

func (f *fixture) event(t *testing.T, title string) *event.Event {
	t.Helper()
	e, err := f.svc.Events.Create(f.ctx, adminEmail, CreateEventInput{
		Title:     title,
		EventDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) idea(t *testing.T, owner string, eventID uint, title string) *idea.Idea {
	t.Helper()
	i, err := f.svc.Ideas.Submit(f.ctx, owner, idea.Draft{
		Title:       title,
		Description: title + " description",
		EventID:     eventID,
	})
	require.NoError(t, err)
	return i
}

func (f *fixture) openVoting(t *testing.T, eventID uint, subStage int) {
	t.Helper()
	_, err := f.svc.Events.SetStage(f.ctx, adminEmail, eventID, event.StageVoting, &subStage)
	require.NoError(t, err)
}

func assertKind(t *testing.T, want common.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, common.KindOf(err), "error: %v", err)
}
