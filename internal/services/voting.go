package services

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/domain/vote"
	"github.com/gravadigital/hackathon-api/internal/metrics"
	"github.com/gravadigital/hackathon-api/internal/repository"
)

// VotingService records category votes, ratings and likes
type VotingService struct {
	store repository.Container
	log   *log.Logger
}

// CategoryVoteInput identifies the pick of one voter
type CategoryVoteInput struct {
	EventID  uint
	IdeaID   uint
	Category string
}

// RatingSummary is every rating of an idea with their mean
type RatingSummary struct {
	IdeaID  uint           `json:"idea_id"`
	Count   int            `json:"count"`
	Average *float64       `json:"average"`
	Ratings []*vote.Rating `json:"ratings"`
}

// CastCategoryVote stores or moves the voter's pick for the category that is open in the event
func (s *VotingService) CastCategoryVote(ctx context.Context, voter string, in CategoryVoteInput) (*vote.CategoryVote, error) {
	if err := requireUser(voter); err != nil {
		return nil, err
	}
	category, err := vote.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	v, err := vote.NewCategoryVote(voter, in.EventID, category, in.IdeaID)
	if err != nil {
		return nil, err
	}

	e, err := s.store.Events().GetByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if !e.AcceptsVotes() {
		return nil, common.Validation("Voting is not open for this event (current stage: %s)", e.Stage)
	}
	if open, _ := vote.CategoryForSubStage(e.CurrentSubStage); open != category {
		return nil, common.Validation("Voting is currently open for %s, not %s", open, category)
	}

	i, err := s.store.Ideas().GetByID(ctx, in.IdeaID)
	if err != nil {
		return nil, err
	}
	if !i.IsMember(in.EventID) {
		return nil, common.NotFound("Idea is not part of this event")
	}

	if err := s.store.Votes().UpsertCategoryVote(ctx, v); err != nil {
		return nil, err
	}
	metrics.VotesCast.WithLabelValues(category.String()).Inc()

	s.log.Info("Category vote stored", "event_id", v.EventID, "category", v.Category, "idea_id", v.IdeaID, "voter", v.UserEmail)
	return v, nil
}

// RemoveCategoryVote deletes the voter's pick for a category while voting is open
func (s *VotingService) RemoveCategoryVote(ctx context.Context, voter string, eventID uint, rawCategory string) error {
	if err := requireUser(voter); err != nil {
		return err
	}
	category, err := vote.ParseCategory(rawCategory)
	if err != nil {
		return err
	}

	e, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !e.AcceptsVotes() {
		return common.Validation("Voting is not open for this event (current stage: %s)", e.Stage)
	}

	if err := s.store.Votes().DeleteCategoryVote(ctx, common.NormalizeEmail(voter), eventID, category); err != nil {
		return err
	}

	s.log.Info("Category vote removed", "event_id", eventID, "category", category, "voter", voter)
	return nil
}

// MyVotes returns the voter's picks in an event
func (s *VotingService) MyVotes(ctx context.Context, voter string, eventID uint) ([]*vote.CategoryVote, error) {
	if err := requireUser(voter); err != nil {
		return nil, err
	}
	if _, err := s.store.Events().GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.Votes().GetUserCategoryVotes(ctx, common.NormalizeEmail(voter), eventID)
}

// Rate stores or replaces the voter's 1-10 rating of an idea
func (s *VotingService) Rate(ctx context.Context, voter string, ideaID uint, rating int) (*vote.Rating, error) {
	if err := requireUser(voter); err != nil {
		return nil, err
	}
	r, err := vote.NewRating(voter, ideaID, rating)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Ideas().GetByID(ctx, ideaID); err != nil {
		return nil, err
	}

	if err := s.store.Votes().UpsertRating(ctx, r); err != nil {
		return nil, err
	}
	metrics.RatingsSubmitted.Inc()

	s.log.Info("Rating stored", "idea_id", ideaID, "rating", rating, "voter", r.UserEmail)
	return r, nil
}

// IdeaRatings summarizes every rating of an idea
func (s *VotingService) IdeaRatings(ctx context.Context, ideaID uint) (*RatingSummary, error) {
	if _, err := s.store.Ideas().GetByID(ctx, ideaID); err != nil {
		return nil, err
	}
	ratings, err := s.store.Votes().GetRatingsByIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	values := make([]int, 0, len(ratings))
	for _, r := range ratings {
		values = append(values, r.Rating)
	}
	summary := &RatingSummary{IdeaID: ideaID, Count: len(ratings), Ratings: ratings}
	if avg, ok := vote.AverageScore(values); ok {
		summary.Average = &avg
	}
	return summary, nil
}

// UserRatings returns every rating the user gave
func (s *VotingService) UserRatings(ctx context.Context, email string) ([]*vote.Rating, error) {
	return s.store.Votes().GetRatingsByUser(ctx, common.NormalizeEmail(email))
}

// Like records a like and bumps the idea's counter in one transaction
func (s *VotingService) Like(ctx context.Context, user string, ideaID uint) (*idea.Idea, error) {
	return s.changeLike(ctx, user, ideaID, true)
}

// Unlike removes the user's like. Removing a like that does not exist is a validation error.
func (s *VotingService) Unlike(ctx context.Context, user string, ideaID uint) (*idea.Idea, error) {
	return s.changeLike(ctx, user, ideaID, false)
}

func (s *VotingService) changeLike(ctx context.Context, user string, ideaID uint, like bool) (*idea.Idea, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	email := common.NormalizeEmail(user)

	var updated *idea.Idea
	err := s.store.Transaction(ctx, func(tx repository.Container) error {
		if _, err := tx.Ideas().GetByID(ctx, ideaID); err != nil {
			return err
		}

		delta := 1
		if like {
			if err := tx.Votes().CreateLike(ctx, &vote.Like{UserEmail: email, IdeaID: ideaID}); err != nil {
				return err
			}
		} else {
			delta = -1
			err := tx.Votes().DeleteLike(ctx, email, ideaID)
			if common.IsNotFound(err) {
				return common.Validation("%s", common.MessageOf(err))
			}
			if err != nil {
				return err
			}
		}

		if err := tx.Ideas().AdjustLikes(ctx, ideaID, delta); err != nil {
			return err
		}
		var err error
		updated, err = tx.Ideas().GetByID(ctx, ideaID)
		return err
	})
	if err != nil {
		return nil, err
	}

	action := "like"
	if !like {
		action = "unlike"
	}
	metrics.LikeChanges.WithLabelValues(action).Inc()
	s.log.Info("Like changed", "idea_id", ideaID, "action", action, "user", email, "likes", updated.Likes)
	return updated, nil
}

// LikedIdeas returns the ideas a user liked, most recent like first
func (s *VotingService) LikedIdeas(ctx context.Context, email string) ([]*idea.Idea, error) {
	ids, err := s.store.Votes().GetLikedIdeaIDs(ctx, common.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*idea.Idea{}, nil
	}

	ideas, err := s.store.Ideas().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*idea.Idea, len(ideas))
	for _, i := range ideas {
		byID[i.ID] = i
	}

	ordered := make([]*idea.Idea, 0, len(ids))
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			ordered = append(ordered, i)
		}
	}
	return ordered, nil
}
