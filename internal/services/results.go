package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/domain/vote"
	"github.com/gravadigital/hackathon-api/internal/metrics"
	"github.com/gravadigital/hackathon-api/internal/repository"
)

// DefaultLeaderboardSize is used when no positive limit is requested
const DefaultLeaderboardSize = 3

// ResultService tallies votes into winners and maintains average scores
type ResultService struct {
	store repository.Container
	log   *log.Logger
}

// Standing is a result joined with the winning idea and its event
type Standing struct {
	*vote.Result
	IdeaTitle    string   `json:"idea_title"`
	Description  string   `json:"idea_description"`
	OwnerEmail   string   `json:"owner_email"`
	Contributors []string `json:"contributors"`
	EventTitle   string   `json:"event_title"`
}

// ComputeWinners recomputes every category winner of an event. Admin only.
func (s *ResultService) ComputeWinners(ctx context.Context, actor string, eventID uint) ([]*vote.Result, error) {
	if err := requireAdmin(ctx, s.store, actor, "compute winners"); err != nil {
		return nil, err
	}

	var results []*vote.Result
	err := s.store.Transaction(ctx, func(tx repository.Container) error {
		var err error
		results, err = s.computeWinners(ctx, tx, eventID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// computeWinners runs the sweep on tx. Categories without votes lose any stale row,
// so repeated runs over the same ledger leave the same rows behind.
func (s *ResultService) computeWinners(ctx context.Context, tx repository.Container, eventID uint) (results []*vote.Result, err error) {
	defer func() { metrics.WinnerSweeps.WithLabelValues(metrics.Outcome(err)).Inc() }()

	if _, err := tx.Events().GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	calculatedAt := now()
	for _, category := range vote.VotingCategories() {
		tallies, err := tx.Votes().TallyCategory(ctx, eventID, category)
		if err != nil {
			return nil, err
		}
		if err := s.storeResult(ctx, tx, eventID, category, tallies, calculatedAt); err != nil {
			return nil, err
		}
	}

	tallies, err := tx.Votes().TallyEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.storeResult(ctx, tx, eventID, vote.CategoryHackathonWinner, tallies, calculatedAt); err != nil {
		return nil, err
	}

	results, err = tx.Results().GetByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Winners computed", "event_id", eventID, "results", len(results))
	return results, nil
}

func (s *ResultService) storeResult(ctx context.Context, tx repository.Container, eventID uint, category vote.Category, tallies []vote.Tally, at time.Time) error {
	result, ok, err := vote.NewResult(eventID, category, tallies, at)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("No votes for category", "event_id", eventID, "category", category)
		return tx.Results().DeleteByEventAndCategory(ctx, eventID, category)
	}
	s.log.Debug("Category winner", "event_id", eventID, "category", category, "idea_id", result.WinningIdeaID, "votes", result.Votes)
	return tx.Results().Upsert(ctx, result)
}

// EventResults returns the stored winners of an event
func (s *ResultService) EventResults(ctx context.Context, eventID uint) ([]*vote.Result, error) {
	if _, err := s.store.Events().GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.Results().GetByEvent(ctx, eventID)
}

// Leaderboard lists hackathon winners across events by vote count
func (s *ResultService) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	results, err := s.store.Results().GetByCategory(ctx, vote.CategoryHackathonWinner, limit)
	if err != nil {
		return nil, err
	}
	return s.standings(ctx, results, nil)
}

// UserWins lists the hackathon wins of ideas the user owns or contributed to.
// Emails match exactly, never as substrings.
func (s *ResultService) UserWins(ctx context.Context, email string) ([]Standing, error) {
	email = common.NormalizeEmail(email)
	if email == "" {
		return nil, common.Validation("email is required")
	}

	results, err := s.store.Results().GetByCategory(ctx, vote.CategoryHackathonWinner, 0)
	if err != nil {
		return nil, err
	}

	return s.standings(ctx, results, func(r *vote.Result, i *idea.Idea) (bool, error) {
		if i.IsOwner(email) || i.IsContributor(email) {
			return true, nil
		}
		md, err := s.store.Ideas().GetMetadata(ctx, i.ID, r.EventID)
		if common.IsNotFound(err) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return common.ContainsExact(md.Contributors, email), nil
	})
}

func (s *ResultService) standings(ctx context.Context, results []*vote.Result, keep func(*vote.Result, *idea.Idea) (bool, error)) ([]Standing, error) {
	ids := make([]uint, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.WinningIdeaID)
	}
	ideas, err := s.store.Ideas().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*idea.Idea, len(ideas))
	for _, i := range ideas {
		byID[i.ID] = i
	}

	titles := make(map[uint]string)
	out := make([]Standing, 0, len(results))
	for _, r := range results {
		i, ok := byID[r.WinningIdeaID]
		if !ok {
			continue
		}
		if keep != nil {
			matched, err := keep(r, i)
			if err != nil {
				return nil, err
			}
			if !matched {
				continue
			}
		}

		title, ok := titles[r.EventID]
		if !ok {
			e, err := s.store.Events().GetByID(ctx, r.EventID)
			if err != nil && !common.IsNotFound(err) {
				return nil, err
			}
			if e != nil {
				title = e.Title
			}
			titles[r.EventID] = title
		}

		out = append(out, Standing{
			Result:       r,
			IdeaTitle:    i.Title,
			Description:  i.Description,
			OwnerEmail:   i.Email,
			Contributors: nonNilStrings(i.Contributors),
			EventTitle:   title,
		})
	}
	return out, nil
}

// RecomputeAverageScores rewrites every idea's average score from the rating ledger.
// Ideas without ratings are reset. Admin only.
func (s *ResultService) RecomputeAverageScores(ctx context.Context, actor string) (scored int, err error) {
	if err := requireAdmin(ctx, s.store, actor, "recompute scores"); err != nil {
		return 0, err
	}
	defer func() { metrics.ScoreSweeps.WithLabelValues(metrics.Outcome(err)).Inc() }()

	err = s.store.Transaction(ctx, func(tx repository.Container) error {
		averages, err := tx.Votes().AverageRatings(ctx)
		if err != nil {
			return err
		}
		scored = len(averages)
		return tx.Ideas().SetAverageScores(ctx, averages)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("Average scores recomputed", "ideas_scored", scored, "by", actor)
	return scored, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
