package postgres

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/logger"
)

// PostgresIdeaRepository implements IdeaRepository using GORM
type PostgresIdeaRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresIdeaRepository creates a new PostgreSQL idea repository
func NewPostgresIdeaRepository(db *gorm.DB) *PostgresIdeaRepository {
	return &PostgresIdeaRepository{
		db:  db,
		log: logger.Repository("idea"),
	}
}

func (r *PostgresIdeaRepository) Create(ctx context.Context, i *idea.Idea) error {
	r.log.Debug("creating new idea", "owner", i.Email, "event_id", i.EventID)

	if err := i.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(i).Error; err != nil {
			return err
		}
		return tx.Create(&idea.IdeaEvent{IdeaID: i.ID, EventID: i.EventID}).Error
	})
	if err != nil {
		r.log.Error("failed to create idea", "error", err, "owner", i.Email)
		return translateError(err, "failed to create idea", "Event not found")
	}

	i.Membership = idea.Membership{i.EventID}
	r.log.Info("idea created successfully", "idea_id", i.ID, "event_id", i.EventID)
	return nil
}

func (r *PostgresIdeaRepository) GetByID(ctx context.Context, id uint) (*idea.Idea, error) {
	var i idea.Idea
	if err := r.db.WithContext(ctx).First(&i, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to retrieve idea", "idea_id", id, "error", err)
		}
		return nil, translateError(err, "failed to retrieve idea", "Idea not found")
	}

	if err := r.attachMembership(ctx, []*idea.Idea{&i}); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *PostgresIdeaRepository) GetByIDs(ctx context.Context, ids []uint) ([]*idea.Idea, error) {
	if len(ids) == 0 {
		return []*idea.Idea{}, nil
	}
	return r.find(ctx, "failed to retrieve ideas by id", func(q *gorm.DB) *gorm.DB {
		return q.Where("id IN ?", ids).Order("id ASC")
	})
}

func (r *PostgresIdeaRepository) GetAll(ctx context.Context) ([]*idea.Idea, error) {
	return r.find(ctx, "failed to retrieve ideas", func(q *gorm.DB) *gorm.DB {
		return q.Order("likes DESC, created_at DESC, id DESC")
	})
}

func (r *PostgresIdeaRepository) GetByEvent(ctx context.Context, eventID uint) ([]*idea.Idea, error) {
	return r.find(ctx, "failed to retrieve ideas by event", func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN idea_events ON idea_events.idea_id = ideas.id").
			Where("idea_events.event_id = ?", eventID).
			Order("ideas.created_at DESC, ideas.id DESC")
	})
}

func (r *PostgresIdeaRepository) GetByOwner(ctx context.Context, email string) ([]*idea.Idea, error) {
	return r.find(ctx, "failed to retrieve ideas by owner", func(q *gorm.DB) *gorm.DB {
		return q.Where("email = ?", email).Order("created_at DESC, id DESC")
	})
}

func (r *PostgresIdeaRepository) GetByContributor(ctx context.Context, email string) ([]*idea.Idea, error) {
	return r.find(ctx, "failed to retrieve ideas by contributor", func(q *gorm.DB) *gorm.DB {
		metadata := r.db.WithContext(ctx).Model(&idea.EventMetadata{}).
			Select("idea_id").
			Where("? = ANY(contributors)", email)
		return q.Where("? = ANY(contributors) OR id IN (?)", email, metadata).
			Order("created_at DESC, id DESC")
	})
}

func (r *PostgresIdeaRepository) Update(ctx context.Context, i *idea.Idea) error {
	r.log.Debug("updating idea", "idea_id", i.ID)

	if err := i.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&idea.Idea{}).Where("id = ?", i.ID).Updates(map[string]any{
		"title":        i.Title,
		"description":  i.Description,
		"technologies": i.Technologies,
		"event_id":     i.EventID,
		"is_built":     i.IsBuilt,
		"contributors": i.Contributors,
		"image_url":    i.ImageURL,
	})
	if result.Error != nil {
		r.log.Error("failed to update idea", "idea_id", i.ID, "error", result.Error)
		return translateError(result.Error, "failed to update idea", "Idea not found")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to update idea", "Idea not found")
	}

	r.log.Info("idea updated successfully", "idea_id", i.ID)
	return nil
}

// Delete removes the idea; foreign keys cascade to likes, ratings, votes and metadata.
func (r *PostgresIdeaRepository) Delete(ctx context.Context, id uint) error {
	r.log.Debug("deleting idea", "idea_id", id)

	result := r.db.WithContext(ctx).Delete(&idea.Idea{}, id)
	if result.Error != nil {
		r.log.Error("failed to delete idea", "idea_id", id, "error", result.Error)
		return translateError(result.Error, "failed to delete idea", "Idea not found")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to delete idea", "Idea not found")
	}

	r.log.Info("idea deleted successfully", "idea_id", id)
	return nil
}

func (r *PostgresIdeaRepository) CountByOwnerAndEvent(ctx context.Context, email string, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&idea.Idea{}).
		Where("email = ? AND event_id = ?", email, eventID).
		Count(&count).Error
	if err != nil {
		r.log.Error("failed to count ideas", "owner", email, "event_id", eventID, "error", err)
		return 0, translateError(err, "failed to count ideas", "")
	}
	return count, nil
}

func (r *PostgresIdeaRepository) AddMembership(ctx context.Context, ideaID, eventID uint) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&idea.IdeaEvent{IdeaID: ideaID, EventID: eventID}).Error
	if err != nil {
		r.log.Error("failed to add idea to event", "idea_id", ideaID, "event_id", eventID, "error", err)
		return translateError(err, "failed to add idea to event", "")
	}

	r.log.Info("idea added to event", "idea_id", ideaID, "event_id", eventID)
	return nil
}

// RemoveMembership deletes the membership row. A trigger removes the idea once it has no events left.
func (r *PostgresIdeaRepository) RemoveMembership(ctx context.Context, ideaID, eventID uint) error {
	result := r.db.WithContext(ctx).
		Where("idea_id = ? AND event_id = ?", ideaID, eventID).
		Delete(&idea.IdeaEvent{})
	if result.Error != nil {
		r.log.Error("failed to remove idea from event", "idea_id", ideaID, "event_id", eventID, "error", result.Error)
		return translateError(result.Error, "failed to remove idea from event", "")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to remove idea from event", "Idea is not part of this event")
	}

	r.log.Info("idea removed from event", "idea_id", ideaID, "event_id", eventID)
	return nil
}

func (r *PostgresIdeaRepository) AdjustLikes(ctx context.Context, ideaID uint, delta int) error {
	result := r.db.WithContext(ctx).Model(&idea.Idea{}).
		Where("id = ?", ideaID).
		UpdateColumn("likes", gorm.Expr("GREATEST(likes + ?, 0)", delta))
	if result.Error != nil {
		r.log.Error("failed to adjust likes", "idea_id", ideaID, "delta", delta, "error", result.Error)
		return translateError(result.Error, "failed to adjust likes", "Idea not found")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to adjust likes", "Idea not found")
	}
	return nil
}

func (r *PostgresIdeaRepository) SetAverageScores(ctx context.Context, scores map[uint]float64) error {
	r.log.Debug("writing average scores", "rated_ideas", len(scores))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&idea.Idea{}).
			Where("average_score IS NOT NULL").
			UpdateColumn("average_score", nil).Error; err != nil {
			return err
		}
		for ideaID, score := range scores {
			if err := tx.Model(&idea.Idea{}).
				Where("id = ?", ideaID).
				UpdateColumn("average_score", score).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("failed to write average scores", "error", err)
		return translateError(err, "failed to write average scores", "")
	}

	r.log.Info("average scores updated", "rated_ideas", len(scores))
	return nil
}

func (r *PostgresIdeaRepository) GetMetadata(ctx context.Context, ideaID, eventID uint) (*idea.EventMetadata, error) {
	var md idea.EventMetadata
	err := r.db.WithContext(ctx).
		Where("idea_id = ? AND event_id = ?", ideaID, eventID).
		First(&md).Error
	if err != nil {
		return nil, translateError(err, "failed to retrieve idea metadata", "Idea metadata not found")
	}
	return &md, nil
}

func (r *PostgresIdeaRepository) GetMetadataForEvent(ctx context.Context, eventID uint) ([]*idea.EventMetadata, error) {
	var rows []*idea.EventMetadata
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&rows).Error; err != nil {
		r.log.Error("failed to retrieve event metadata", "event_id", eventID, "error", err)
		return nil, translateError(err, "failed to retrieve event metadata", "")
	}
	return rows, nil
}

func (r *PostgresIdeaRepository) UpsertMetadata(ctx context.Context, md *idea.EventMetadata) error {
	if err := md.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "idea_id"}, {Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "technologies", "contributors", "is_built", "image_url", "updated_at"}),
	}).Create(md).Error
	if err != nil {
		r.log.Error("failed to upsert idea metadata", "idea_id", md.IdeaID, "event_id", md.EventID, "error", err)
		return translateError(err, "failed to upsert idea metadata", "")
	}

	r.log.Debug("idea metadata stored", "idea_id", md.IdeaID, "event_id", md.EventID)
	return nil
}

func (r *PostgresIdeaRepository) DeleteMetadata(ctx context.Context, ideaID, eventID uint) error {
	err := r.db.WithContext(ctx).
		Where("idea_id = ? AND event_id = ?", ideaID, eventID).
		Delete(&idea.EventMetadata{}).Error
	if err != nil {
		r.log.Error("failed to delete idea metadata", "idea_id", ideaID, "event_id", eventID, "error", err)
		return translateError(err, "failed to delete idea metadata", "")
	}
	return nil
}

func (r *PostgresIdeaRepository) find(ctx context.Context, op string, scope func(*gorm.DB) *gorm.DB) ([]*idea.Idea, error) {
	var ideas []*idea.Idea
	if err := scope(r.db.WithContext(ctx).Model(&idea.Idea{}).Select("ideas.*")).Find(&ideas).Error; err != nil {
		r.log.Error(op, "error", err)
		return nil, translateError(err, op, "")
	}
	if err := r.attachMembership(ctx, ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// attachMembership loads idea_events rows for ideas in insertion order.
func (r *PostgresIdeaRepository) attachMembership(ctx context.Context, ideas []*idea.Idea) error {
	if len(ideas) == 0 {
		return nil
	}

	ids := make([]uint, len(ideas))
	for i, it := range ideas {
		ids[i] = it.ID
	}

	var rows []idea.IdeaEvent
	if err := r.db.WithContext(ctx).
		Where("idea_id IN ?", ids).
		Order("added_at ASC, event_id ASC").
		Find(&rows).Error; err != nil {
		r.log.Error("failed to load idea memberships", "error", err)
		return translateError(err, "failed to load idea memberships", "")
	}

	byIdea := make(map[uint]idea.Membership, len(ideas))
	for _, row := range rows {
		byIdea[row.IdeaID] = byIdea[row.IdeaID].Add(row.EventID)
	}
	for _, it := range ideas {
		it.Membership = byIdea[it.ID]
	}
	return nil
}
