package postgres

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/vote"
	"github.com/gravadigital/hackathon-api/internal/logger"
)

// PostgresVoteRepository implements VoteRepository using GORM
type PostgresVoteRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresVoteRepository creates a new PostgreSQL vote repository
func NewPostgresVoteRepository(db *gorm.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{
		db:  db,
		log: logger.Repository("vote"),
	}
}

func (r *PostgresVoteRepository) UpsertCategoryVote(ctx context.Context, v *vote.CategoryVote) error {
	r.log.Debug("upserting category vote", "user", v.UserEmail, "event_id", v.EventID, "category", v.Category, "idea_id", v.IdeaID)

	if err := v.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_email"}, {Name: "event_id"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"idea_id", "updated_at"}),
	}).Create(v).Error
	if err != nil {
		r.log.Error("failed to upsert category vote", "error", err, "event_id", v.EventID, "category", v.Category)
		return translateError(err, "failed to upsert category vote", "Idea not found")
	}

	stored, err := r.GetCategoryVote(ctx, v.UserEmail, v.EventID, v.Category)
	if err != nil {
		return err
	}
	*v = *stored

	r.log.Info("category vote stored", "vote_id", v.ID, "event_id", v.EventID, "category", v.Category, "idea_id", v.IdeaID)
	return nil
}

func (r *PostgresVoteRepository) DeleteCategoryVote(ctx context.Context, email string, eventID uint, category vote.Category) error {
	result := r.db.WithContext(ctx).
		Where("user_email = ? AND event_id = ? AND category = ?", email, eventID, category).
		Delete(&vote.CategoryVote{})
	if result.Error != nil {
		r.log.Error("failed to delete category vote", "error", result.Error, "event_id", eventID, "category", category)
		return translateError(result.Error, "failed to delete category vote", "")
	}
	if result.RowsAffected == 0 {
		return common.NotFound("No vote found for this category")
	}

	r.log.Info("category vote removed", "event_id", eventID, "category", category)
	return nil
}

func (r *PostgresVoteRepository) GetCategoryVote(ctx context.Context, email string, eventID uint, category vote.Category) (*vote.CategoryVote, error) {
	var v vote.CategoryVote
	err := r.db.WithContext(ctx).
		Where("user_email = ? AND event_id = ? AND category = ?", email, eventID, category).
		First(&v).Error
	if err != nil {
		return nil, translateError(err, "failed to retrieve category vote", "No vote found for this category")
	}
	return &v, nil
}

func (r *PostgresVoteRepository) GetUserCategoryVotes(ctx context.Context, email string, eventID uint) ([]*vote.CategoryVote, error) {
	var votes []*vote.CategoryVote
	err := r.db.WithContext(ctx).
		Where("user_email = ? AND event_id = ?", email, eventID).
		Order("created_at ASC, id ASC").
		Find(&votes).Error
	if err != nil {
		r.log.Error("failed to retrieve user votes", "error", err, "event_id", eventID)
		return nil, translateError(err, "failed to retrieve user votes", "")
	}
	return votes, nil
}

func (r *PostgresVoteRepository) DeleteIdeaVotes(ctx context.Context, ideaID, eventID uint) error {
	result := r.db.WithContext(ctx).
		Where("idea_id = ? AND event_id = ?", ideaID, eventID).
		Delete(&vote.CategoryVote{})
	if result.Error != nil {
		r.log.Error("failed to delete idea votes", "error", result.Error, "idea_id", ideaID, "event_id", eventID)
		return translateError(result.Error, "failed to delete idea votes", "")
	}

	r.log.Info("idea votes removed", "idea_id", ideaID, "event_id", eventID, "count", result.RowsAffected)
	return nil
}

func (r *PostgresVoteRepository) TallyCategory(ctx context.Context, eventID uint, category vote.Category) ([]vote.Tally, error) {
	return r.tally(ctx, "failed to tally category", func(q *gorm.DB) *gorm.DB {
		return q.Where("event_id = ? AND category = ?", eventID, category)
	})
}

func (r *PostgresVoteRepository) TallyEvent(ctx context.Context, eventID uint) ([]vote.Tally, error) {
	return r.tally(ctx, "failed to tally event", func(q *gorm.DB) *gorm.DB {
		return q.Where("event_id = ?", eventID)
	})
}

func (r *PostgresVoteRepository) tally(ctx context.Context, op string, scope func(*gorm.DB) *gorm.DB) ([]vote.Tally, error) {
	var tallies []vote.Tally
	q := r.db.WithContext(ctx).Model(&vote.CategoryVote{}).Select("idea_id, COUNT(*) AS votes")
	err := scope(q).Group("idea_id").Order("votes DESC, idea_id ASC").Scan(&tallies).Error
	if err != nil {
		r.log.Error(op, "error", err)
		return nil, translateError(err, op, "")
	}
	return tallies, nil
}

func (r *PostgresVoteRepository) UpsertRating(ctx context.Context, rt *vote.Rating) error {
	if err := vote.ValidateRating(rt.Rating); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_email"}, {Name: "idea_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(rt).Error
	if err != nil {
		r.log.Error("failed to upsert rating", "error", err, "idea_id", rt.IdeaID)
		return translateError(err, "failed to upsert rating", "Idea not found")
	}

	r.log.Info("rating stored", "idea_id", rt.IdeaID, "rating", rt.Rating)
	return nil
}

func (r *PostgresVoteRepository) GetRatingsByIdea(ctx context.Context, ideaID uint) ([]*vote.Rating, error) {
	var ratings []*vote.Rating
	if err := r.db.WithContext(ctx).Where("idea_id = ?", ideaID).Order("created_at ASC, id ASC").Find(&ratings).Error; err != nil {
		r.log.Error("failed to retrieve ratings by idea", "error", err, "idea_id", ideaID)
		return nil, translateError(err, "failed to retrieve ratings", "")
	}
	return ratings, nil
}

func (r *PostgresVoteRepository) GetRatingsByUser(ctx context.Context, email string) ([]*vote.Rating, error) {
	var ratings []*vote.Rating
	if err := r.db.WithContext(ctx).Where("user_email = ?", email).Order("created_at ASC, id ASC").Find(&ratings).Error; err != nil {
		r.log.Error("failed to retrieve ratings by user", "error", err)
		return nil, translateError(err, "failed to retrieve ratings", "")
	}
	return ratings, nil
}

func (r *PostgresVoteRepository) AverageRatings(ctx context.Context) (map[uint]float64, error) {
	var rows []struct {
		IdeaID  uint
		Average float64
	}
	err := r.db.WithContext(ctx).Model(&vote.Rating{}).
		Select("idea_id, AVG(rating)::float8 AS average").
		Group("idea_id").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("failed to average ratings", "error", err)
		return nil, translateError(err, "failed to average ratings", "")
	}

	averages := make(map[uint]float64, len(rows))
	for _, row := range rows {
		averages[row.IdeaID] = row.Average
	}
	return averages, nil
}

func (r *PostgresVoteRepository) CreateLike(ctx context.Context, l *vote.Like) error {
	err := r.db.WithContext(ctx).Create(l).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.Conflict("You have already liked this idea.")
	}
	if err != nil {
		r.log.Error("failed to create like", "error", err, "idea_id", l.IdeaID)
		return translateError(err, "failed to create like", "Idea not found")
	}
	return nil
}

func (r *PostgresVoteRepository) DeleteLike(ctx context.Context, email string, ideaID uint) error {
	result := r.db.WithContext(ctx).Where("user_email = ? AND idea_id = ?", email, ideaID).Delete(&vote.Like{})
	if result.Error != nil {
		r.log.Error("failed to delete like", "error", result.Error, "idea_id", ideaID)
		return translateError(result.Error, "failed to delete like", "")
	}
	if result.RowsAffected == 0 {
		return common.NotFound("You have not liked this idea.")
	}
	return nil
}

func (r *PostgresVoteRepository) GetLikedIdeaIDs(ctx context.Context, email string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&vote.Like{}).
		Where("user_email = ?", email).
		Order("liked_at DESC, id DESC").
		Pluck("idea_id", &ids).Error
	if err != nil {
		r.log.Error("failed to retrieve liked ideas", "error", err)
		return nil, translateError(err, "failed to retrieve liked ideas", "")
	}
	return ids, nil
}

func (r *PostgresVoteRepository) CountLikes(ctx context.Context, ideaID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&vote.Like{}).Where("idea_id = ?", ideaID).Count(&count).Error; err != nil {
		return 0, translateError(err, "failed to count likes", "")
	}
	return count, nil
}
