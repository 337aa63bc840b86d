package postgres

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/event"
	"github.com/gravadigital/hackathon-api/internal/logger"
)

// PostgresEventRepository implements EventRepository using GORM
type PostgresEventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresEventRepository creates a new PostgreSQL event repository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

func (r *PostgresEventRepository) Create(ctx context.Context, e *event.Event) error {
	r.log.Debug("creating new event", "title", e.Title, "event_date", e.EventDate)

	if err := e.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		r.log.Error("failed to create event", "error", err, "title", e.Title)
		return translateError(err, "failed to create event", "event not found")
	}

	r.log.Info("event created successfully", "event_id", e.ID, "title", e.Title)
	return nil
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id uint) (*event.Event, error) {
	var e event.Event
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to retrieve event", "event_id", id, "error", err)
		}
		return nil, translateError(err, "failed to retrieve event", "Event not found")
	}
	return &e, nil
}

func (r *PostgresEventRepository) GetAll(ctx context.Context) ([]*event.Event, error) {
	var events []*event.Event
	if err := r.db.WithContext(ctx).Order("event_date ASC, id ASC").Find(&events).Error; err != nil {
		r.log.Error("failed to retrieve events", "error", err)
		return nil, translateError(err, "failed to retrieve events", "")
	}

	r.log.Debug("events retrieved successfully", "count", len(events))
	return events, nil
}

func (r *PostgresEventRepository) Update(ctx context.Context, e *event.Event) error {
	r.log.Debug("updating event", "event_id", e.ID, "stage", e.Stage, "sub_stage", e.CurrentSubStage)

	if err := e.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&event.Event{}).Where("id = ?", e.ID).Updates(map[string]any{
		"title":             e.Title,
		"event_date":        e.EventDate,
		"stage":             e.Stage,
		"current_sub_stage": e.CurrentSubStage,
		"link":              e.Link,
		"image_url":         e.ImageURL,
	})
	if result.Error != nil {
		r.log.Error("failed to update event", "event_id", e.ID, "error", result.Error)
		return translateError(result.Error, "failed to update event", "Event not found")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to update event", "Event not found")
	}

	r.log.Info("event updated successfully", "event_id", e.ID, "stage", e.Stage.String())
	return nil
}

// Delete removes the event; foreign keys cascade to memberships, votes and results.
func (r *PostgresEventRepository) Delete(ctx context.Context, id uint) error {
	r.log.Debug("deleting event", "event_id", id)

	result := r.db.WithContext(ctx).Delete(&event.Event{}, id)
	if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
		return &common.Error{Kind: common.KindConflict, Message: "Event is still the origin of an idea", Err: result.Error}
	}
	if result.Error != nil {
		r.log.Error("failed to delete event", "event_id", id, "error", result.Error)
		return translateError(result.Error, "failed to delete event", "Event not found")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to delete event", "Event not found")
	}

	r.log.Info("event deleted successfully", "event_id", id)
	return nil
}
