package idea

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
)

func TestParseMembership(t *testing.T) {
	assert.Equal(t, Membership{1, 5}, ParseMembership("1,5"))
	assert.Equal(t, Membership{1, 5}, ParseMembership(" 1 , 5 ,1"))
	assert.Equal(t, Membership{7}, ParseMembership("abc,,7,0"))
	assert.Empty(t, ParseMembership(""))

	m := ParseMembership("1,5")
	assert.False(t, m.Contains(15), "15 is not a member of 1,5")
	assert.True(t, m.Contains(5))
	assert.False(t, ParseMembership("15").Contains(1))
}

func TestMembershipAddRemoveRoundTrip(t *testing.T) {
	m := Membership{1}

	added := m.Add(5)
	assert.Equal(t, Membership{1, 5}, added)
	assert.Equal(t, Membership{1}, m, "Add must not mutate the receiver")
	assert.Equal(t, added, added.Add(5), "adding an existing member is a no-op")

	assert.Equal(t, m, added.Remove(5))
	assert.Equal(t, "1,5", added.String())
	assert.Equal(t, added, ParseMembership(added.String()))
}

func TestNewIdea(t *testing.T) {
	i, err := NewIdea("owner@example.com", Draft{
		Title:        " Smart bins ",
		Description:  "Sensors in bins",
		EventID:      1,
		Technologies: []string{"Go", " ", "Postgres"},
		Contributors: []string{"a@example.com", "a@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Smart bins", i.Title)
	assert.Equal(t, pq.StringArray{"Go", "Postgres"}, i.Technologies)
	assert.Equal(t, pq.StringArray{"a@example.com"}, i.Contributors)
	assert.Equal(t, Membership{1}, i.Membership)

	_, err = NewIdea("owner@example.com", Draft{Title: "x", EventID: 1})
	assert.Error(t, err, "description is required")
	_, err = NewIdea("owner@example.com", Draft{Title: "x", Description: "y"})
	assert.Error(t, err, "event is required")
}

func TestAddContributorRejectsDuplicates(t *testing.T) {
	i := &Idea{Contributors: pq.StringArray{"a@example.com"}}
	require.NoError(t, i.AddContributor("b@example.com"))
	err := i.AddContributor("a@example.com")
	assert.ErrorIs(t, err, ErrContributorExists)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	assert.Equal(t, "Contributor already added", common.MessageOf(err))
	assert.Equal(t, pq.StringArray{"a@example.com", "b@example.com"}, i.Contributors)
}

func TestResolveView(t *testing.T) {
	i := &Idea{
		ID:          7,
		EventID:     1,
		Title:       "Idea",
		Description: "base",
		ImageURL:    "base.png",
		Membership:  Membership{1, 2},
	}
	md := &EventMetadata{IdeaID: 7, EventID: 2, Description: "event two", Contributors: pq.StringArray{"c@example.com"}}

	base := ResolveView(i, 1, nil)
	assert.Equal(t, "base", base.Description)
	assert.False(t, base.EventSpecific)
	assert.NotNil(t, base.Technologies)

	specific := ResolveView(i, 2, md)
	assert.Equal(t, "event two", specific.Description)
	assert.Equal(t, []string{"c@example.com"}, specific.Contributors)
	assert.Equal(t, "base.png", specific.ImageURL, "an empty override keeps the base image")
	assert.True(t, specific.EventSpecific)

	mismatched := ResolveView(i, 1, md)
	assert.Equal(t, "base", mismatched.Description, "metadata of another event is ignored")
}

func TestRemoveEventPromotesNextOrigin(t *testing.T) {
	i := &Idea{ID: 7, EventID: 1, Description: "base", Membership: Membership{1, 2, 3}}
	md := &EventMetadata{IdeaID: 7, EventID: 2, Description: "event two", IsBuilt: true}

	moved := i.RemoveEvent(1, md)
	assert.True(t, moved)
	assert.Equal(t, uint(2), i.EventID)
	assert.Equal(t, "event two", i.Description)
	assert.True(t, i.IsBuilt)
	assert.Equal(t, Membership{2, 3}, i.Membership)

	assert.False(t, i.RemoveEvent(3, nil))
	assert.Equal(t, uint(2), i.EventID)
	assert.Equal(t, Membership{2}, i.Membership)
}
