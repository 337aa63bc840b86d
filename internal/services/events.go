package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/hackathon-api/internal/domain/event"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/domain/vote"
	"github.com/gravadigital/hackathon-api/internal/repository"
)

// EventService manages events and drives their stage machine
type EventService struct {
	store   repository.Container
	results *ResultService
	log     *log.Logger
}

// CreateEventInput carries the fields of a new event
type CreateEventInput struct {
	Title     string
	EventDate time.Time
	Link      string
	ImageURL  string
}

// Create adds an event in the submission stage. Admin only.
func (s *EventService) Create(ctx context.Context, actor string, in CreateEventInput) (*event.Event, error) {
	if err := requireAdmin(ctx, s.store, actor, "create events"); err != nil {
		return nil, err
	}

	e := event.NewEvent(in.Title, in.EventDate, in.Link, in.ImageURL)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Events().Create(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info("Event created", "event_id", e.ID, "title", e.Title, "by", actor)
	return e, nil
}

// List returns every event, oldest first
func (s *EventService) List(ctx context.Context) ([]*event.Event, error) {
	return s.store.Events().GetAll(ctx)
}

func (s *EventService) Get(ctx context.Context, id uint) (*event.Event, error) {
	return s.store.Events().GetByID(ctx, id)
}

// Delete removes an event with everything scoped to it. Its ideas leave the event
// the way RemoveEvent takes them out, so ideas entered elsewhere survive. Admin only.
func (s *EventService) Delete(ctx context.Context, actor string, id uint) error {
	var removed int
	err := s.store.Transaction(ctx, func(tx repository.Container) error {
		if err := requireAdmin(ctx, tx, actor, "delete events"); err != nil {
			return err
		}
		if _, err := tx.Events().GetByID(ctx, id); err != nil {
			return err
		}

		ideas, err := tx.Ideas().GetByEvent(ctx, id)
		if err != nil {
			return err
		}
		for _, i := range ideas {
			deleted, err := detachEvent(ctx, tx, i, id)
			if err != nil {
				return err
			}
			if deleted {
				removed++
			}
		}
		return tx.Events().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("Event deleted", "event_id", id, "ideas_deleted", removed, "by", actor)
	return nil
}

// Ideas returns the ideas of an event as seen from that event
func (s *EventService) Ideas(ctx context.Context, id uint) ([]idea.View, error) {
	if _, err := s.store.Events().GetByID(ctx, id); err != nil {
		return nil, err
	}

	ideas, err := s.store.Ideas().GetByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	metadata, err := s.store.Ideas().GetMetadataForEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	byIdea := make(map[uint]*idea.EventMetadata, len(metadata))
	for _, md := range metadata {
		byIdea[md.IdeaID] = md
	}

	views := make([]idea.View, 0, len(ideas))
	for _, i := range ideas {
		views = append(views, idea.ResolveView(i, id, byIdea[i.ID]))
	}
	return views, nil
}

// SetStage moves an event forward. Entering the results stage computes the winners
// in the same transaction. Admin only.
func (s *EventService) SetStage(ctx context.Context, actor string, id uint, stage event.Stage, subStage *int) (*event.Event, error) {
	if err := requireAdmin(ctx, s.store, actor, "change event stages"); err != nil {
		return nil, err
	}

	var updated *event.Event
	err := s.store.Transaction(ctx, func(tx repository.Container) error {
		e, err := tx.Events().GetByID(ctx, id)
		if err != nil {
			return err
		}
		previous := e.Stage
		if err := e.SetStage(stage, subStage); err != nil {
			return err
		}
		if err := tx.Events().Update(ctx, e); err != nil {
			return err
		}
		if e.Stage == event.StageResults && previous != event.StageResults {
			if _, err := s.results.computeWinners(ctx, tx, e.ID); err != nil {
				return err
			}
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Event stage updated", "event_id", id, "stage", updated.Stage, "sub_stage", updated.CurrentSubStage, "by", actor)
	return updated, nil
}

// SetSubStage selects the open voting category. Admin only.
func (s *EventService) SetSubStage(ctx context.Context, actor string, id uint, subStage int) (*event.Event, error) {
	if err := requireAdmin(ctx, s.store, actor, "change event sub-stages"); err != nil {
		return nil, err
	}

	var updated *event.Event
	err := s.store.Transaction(ctx, func(tx repository.Container) error {
		e, err := tx.Events().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := e.SetSubStage(subStage); err != nil {
			return err
		}
		updated = e
		return tx.Events().Update(ctx, e)
	})
	if err != nil {
		return nil, err
	}

	category, _ := vote.CategoryForSubStage(updated.CurrentSubStage)
	s.log.Info("Event sub-stage updated", "event_id", id, "sub_stage", updated.CurrentSubStage, "category", category, "by", actor)
	return updated, nil
}

// SetResultsTime closes voting and publishes the winners. Running it again on an
// event already in the results stage recomputes them.
func (s *EventService) SetResultsTime(ctx context.Context, actor string, id uint) (*event.Event, []*vote.Result, error) {
	if err := requireAdmin(ctx, s.store, actor, "publish results"); err != nil {
		return nil, nil, err
	}

	var (
		updated *event.Event
		results []*vote.Result
	)
	err := s.store.Transaction(ctx, func(tx repository.Container) error {
		e, err := tx.Events().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := e.SetStage(event.StageResults, nil); err != nil {
			return err
		}
		if err := tx.Events().Update(ctx, e); err != nil {
			return err
		}
		updated = e
		results, err = s.results.computeWinners(ctx, tx, e.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("Results published", "event_id", id, "results", len(results), "by", actor)
	return updated, results, nil
}
