// Package repository declares the storage contracts shared by the postgres and in-memory backends.
package repository

import (
	"context"

	"github.com/gravadigital/hackathon-api/internal/domain/contributor"
	"github.com/gravadigital/hackathon-api/internal/domain/event"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/domain/participant"
	"github.com/gravadigital/hackathon-api/internal/domain/vote"
)

// EventRepository persists events.
type EventRepository interface {
	Create(ctx context.Context, e *event.Event) error
	GetByID(ctx context.Context, id uint) (*event.Event, error)
	// GetAll returns events ordered by event date, oldest first.
	GetAll(ctx context.Context) ([]*event.Event, error)
	Update(ctx context.Context, e *event.Event) error
	Delete(ctx context.Context, id uint) error
}

// IdeaRepository persists ideas, their event membership and event-specific metadata.
// Returned ideas always carry their Membership.
type IdeaRepository interface {
	// Create stores the idea and its origin membership row.
	Create(ctx context.Context, i *idea.Idea) error
	GetByID(ctx context.Context, id uint) (*idea.Idea, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*idea.Idea, error)
	// GetAll orders by likes, then newest first.
	GetAll(ctx context.Context) ([]*idea.Idea, error)
	GetByEvent(ctx context.Context, eventID uint) ([]*idea.Idea, error)
	GetByOwner(ctx context.Context, email string) ([]*idea.Idea, error)
	// GetByContributor matches the base or any event-specific contributor list.
	GetByContributor(ctx context.Context, email string) ([]*idea.Idea, error)
	// Update writes the base fields. Likes and average score are left untouched.
	Update(ctx context.Context, i *idea.Idea) error
	Delete(ctx context.Context, id uint) error
	CountByOwnerAndEvent(ctx context.Context, email string, eventID uint) (int64, error)

	// AddMembership is idempotent.
	AddMembership(ctx context.Context, ideaID, eventID uint) error
	RemoveMembership(ctx context.Context, ideaID, eventID uint) error

	AdjustLikes(ctx context.Context, ideaID uint, delta int) error
	// SetAverageScores overwrites every idea's average score; ideas missing from scores are reset to null.
	SetAverageScores(ctx context.Context, scores map[uint]float64) error

	GetMetadata(ctx context.Context, ideaID, eventID uint) (*idea.EventMetadata, error)
	GetMetadataForEvent(ctx context.Context, eventID uint) ([]*idea.EventMetadata, error)
	UpsertMetadata(ctx context.Context, md *idea.EventMetadata) error
	DeleteMetadata(ctx context.Context, ideaID, eventID uint) error
}

// VoteRepository persists category votes, ratings and likes.
type VoteRepository interface {
	// UpsertCategoryVote inserts or moves the caller's vote for (user, event, category) atomically.
	UpsertCategoryVote(ctx context.Context, v *vote.CategoryVote) error
	DeleteCategoryVote(ctx context.Context, email string, eventID uint, category vote.Category) error
	GetCategoryVote(ctx context.Context, email string, eventID uint, category vote.Category) (*vote.CategoryVote, error)
	GetUserCategoryVotes(ctx context.Context, email string, eventID uint) ([]*vote.CategoryVote, error)
	// DeleteIdeaVotes drops every category vote cast for an idea inside one event.
	DeleteIdeaVotes(ctx context.Context, ideaID, eventID uint) error
	TallyCategory(ctx context.Context, eventID uint, category vote.Category) ([]vote.Tally, error)
	// TallyEvent counts every category vote of the event per idea.
	TallyEvent(ctx context.Context, eventID uint) ([]vote.Tally, error)

	UpsertRating(ctx context.Context, r *vote.Rating) error
	GetRatingsByIdea(ctx context.Context, ideaID uint) ([]*vote.Rating, error)
	GetRatingsByUser(ctx context.Context, email string) ([]*vote.Rating, error)
	// AverageRatings returns the mean rating of every rated idea.
	AverageRatings(ctx context.Context) (map[uint]float64, error)

	// CreateLike returns a conflict error when the like already exists.
	CreateLike(ctx context.Context, l *vote.Like) error
	// DeleteLike returns a not found error when there is no like to remove.
	DeleteLike(ctx context.Context, email string, ideaID uint) error
	GetLikedIdeaIDs(ctx context.Context, email string) ([]uint, error)
	CountLikes(ctx context.Context, ideaID uint) (int64, error)
}

// ResultRepository persists computed category winners.
type ResultRepository interface {
	Upsert(ctx context.Context, r *vote.Result) error
	DeleteByEventAndCategory(ctx context.Context, eventID uint, category vote.Category) error
	// DeleteByEventAndIdea drops every result in eventID won by ideaID
	DeleteByEventAndIdea(ctx context.Context, eventID, ideaID uint) error
	GetByEvent(ctx context.Context, eventID uint) ([]*vote.Result, error)
	// GetByCategory orders by votes descending. A limit of zero or less returns every row.
	GetByCategory(ctx context.Context, category vote.Category, limit int) ([]*vote.Result, error)
}

// UserRepository persists user profiles and the admin allow-list.
type UserRepository interface {
	Upsert(ctx context.Context, u *participant.User) error
	GetByEmail(ctx context.Context, email string) (*participant.User, error)
	GetAll(ctx context.Context) ([]*participant.User, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	AddAdmin(ctx context.Context, email string) error
}

// ContributorRequestRepository persists contributor requests.
type ContributorRequestRepository interface {
	Create(ctx context.Context, r *contributor.Request) error
	GetByID(ctx context.Context, id uint) (*contributor.Request, error)
	HasPending(ctx context.Context, ideaID, eventID uint, email string) (bool, error)
	GetPending(ctx context.Context, ideaID, eventID uint) ([]*contributor.Request, error)
	GetByRequester(ctx context.Context, email string) ([]*contributor.Request, error)
	// GetForOwner returns requests on ideas owned by ownerEmail; an empty owner returns all.
	GetForOwner(ctx context.Context, ownerEmail string) ([]*contributor.Request, error)
	CountPendingForOwner(ctx context.Context, ownerEmail string) (int64, error)
	Update(ctx context.Context, r *contributor.Request) error
}

// Container groups the repositories of one backend.
type Container interface {
	Events() EventRepository
	Ideas() IdeaRepository
	Votes() VoteRepository
	Results() ResultRepository
	Users() UserRepository
	ContributorRequests() ContributorRequestRepository

	// Transaction runs fn against repositories bound to a single transaction.
	// Returning an error from fn rolls every write back.
	Transaction(ctx context.Context, fn func(tx Container) error) error
	Health(ctx context.Context) error
	Close() error
}
