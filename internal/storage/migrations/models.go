package migrations

import (
	"github.com/gravadigital/hackathon-api/internal/domain/contributor"
	"github.com/gravadigital/hackathon-api/internal/domain/event"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/domain/participant"
	"github.com/gravadigital/hackathon-api/internal/domain/vote"
)

// AllModels returns every persisted model in dependency order
func AllModels() []any {
	return []any{
		&participant.User{},
		&participant.Admin{},
		&event.Event{},
		&idea.Idea{},
		&idea.IdeaEvent{},
		&idea.EventMetadata{},
		&vote.CategoryVote{},
		&vote.Rating{},
		&vote.Like{},
		&vote.Result{},
		&contributor.Request{},
	}
}

// coreTables lists the tables created by AllModels, children first
var coreTables = []string{
	"contributor_requests",
	"results",
	"likes",
	"ratings",
	"category_votes",
	"idea_event_metadata",
	"idea_events",
	"ideas",
	"events",
	"admins",
	"users",
}
