package postgres

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/hackathon-api/internal/domain/vote"
	"github.com/gravadigital/hackathon-api/internal/logger"
)

// PostgresResultRepository implements ResultRepository using GORM
type PostgresResultRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresResultRepository creates a new PostgreSQL result repository
func NewPostgresResultRepository(db *gorm.DB) *PostgresResultRepository {
	return &PostgresResultRepository{
		db:  db,
		log: logger.Repository("results"),
	}
}

func (r *PostgresResultRepository) Upsert(ctx context.Context, res *vote.Result) error {
	r.log.Debug("storing result", "event_id", res.EventID, "category", res.Category, "winning_idea_id", res.WinningIdeaID)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"winning_idea_id", "votes", "breakdown", "calculated_at"}),
	}).Create(res).Error
	if err != nil {
		r.log.Error("failed to store result", "error", err, "event_id", res.EventID, "category", res.Category)
		return translateError(err, "failed to store result", "")
	}

	r.log.Info("result stored", "event_id", res.EventID, "category", res.Category, "votes", res.Votes)
	return nil
}

func (r *PostgresResultRepository) DeleteByEventAndCategory(ctx context.Context, eventID uint, category vote.Category) error {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND category = ?", eventID, category).
		Delete(&vote.Result{})
	if result.Error != nil {
		r.log.Error("failed to delete result", "error", result.Error, "event_id", eventID, "category", category)
		return translateError(result.Error, "failed to delete result", "")
	}
	if result.RowsAffected > 0 {
		r.log.Info("stale result removed", "event_id", eventID, "category", category)
	}
	return nil
}

func (r *PostgresResultRepository) DeleteByEventAndIdea(ctx context.Context, eventID, ideaID uint) error {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND winning_idea_id = ?", eventID, ideaID).
		Delete(&vote.Result{})
	if result.Error != nil {
		r.log.Error("failed to delete results", "error", result.Error, "event_id", eventID, "idea_id", ideaID)
		return translateError(result.Error, "failed to delete results", "")
	}
	if result.RowsAffected > 0 {
		r.log.Info("results of withdrawn idea removed", "event_id", eventID, "idea_id", ideaID, "rows", result.RowsAffected)
	}
	return nil
}

func (r *PostgresResultRepository) GetByEvent(ctx context.Context, eventID uint) ([]*vote.Result, error) {
	var results []*vote.Result
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("category ASC").
		Find(&results).Error
	if err != nil {
		r.log.Error("failed to retrieve results", "error", err, "event_id", eventID)
		return nil, translateError(err, "failed to retrieve results", "")
	}
	return results, nil
}

func (r *PostgresResultRepository) GetByCategory(ctx context.Context, category vote.Category, limit int) ([]*vote.Result, error) {
	var results []*vote.Result
	q := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("votes DESC, calculated_at DESC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		r.log.Error("failed to retrieve results by category", "error", err, "category", category)
		return nil, translateError(err, "failed to retrieve results", "")
	}
	return results, nil
}
