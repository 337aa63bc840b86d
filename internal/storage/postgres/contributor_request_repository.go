package postgres

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/hackathon-api/internal/domain/contributor"
	"github.com/gravadigital/hackathon-api/internal/logger"
)

// PostgresContributorRequestRepository implements ContributorRequestRepository using GORM
type PostgresContributorRequestRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresContributorRequestRepository creates a new PostgreSQL contributor request repository
func NewPostgresContributorRequestRepository(db *gorm.DB) *PostgresContributorRequestRepository {
	return &PostgresContributorRequestRepository{
		db:  db,
		log: logger.Repository("contributor_request"),
	}
}

func (r *PostgresContributorRequestRepository) Create(ctx context.Context, req *contributor.Request) error {
	r.log.Debug("creating contributor request", "idea_id", req.IdeaID, "event_id", req.EventID, "requester", req.RequesterEmail)

	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		r.log.Error("failed to create contributor request", "error", err)
		return translateError(err, "failed to create contributor request", "Idea not found")
	}

	r.log.Info("contributor request created", "request_id", req.ID)
	return nil
}

func (r *PostgresContributorRequestRepository) GetByID(ctx context.Context, id uint) (*contributor.Request, error) {
	var req contributor.Request
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to retrieve contributor request", "request_id", id, "error", err)
		}
		return nil, translateError(err, "failed to retrieve contributor request", "Request not found")
	}
	return &req, nil
}

func (r *PostgresContributorRequestRepository) HasPending(ctx context.Context, ideaID, eventID uint, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&contributor.Request{}).
		Where("idea_id = ? AND event_id = ? AND requester_email = ? AND status = ?", ideaID, eventID, email, contributor.StatusPending).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, "failed to check pending requests", "")
	}
	return count > 0, nil
}

func (r *PostgresContributorRequestRepository) GetPending(ctx context.Context, ideaID, eventID uint) ([]*contributor.Request, error) {
	var reqs []*contributor.Request
	err := r.db.WithContext(ctx).
		Where("idea_id = ? AND event_id = ? AND status = ?", ideaID, eventID, contributor.StatusPending).
		Order("created_at ASC, id ASC").
		Find(&reqs).Error
	if err != nil {
		r.log.Error("failed to retrieve pending requests", "error", err)
		return nil, translateError(err, "failed to retrieve pending requests", "")
	}
	return reqs, nil
}

func (r *PostgresContributorRequestRepository) GetByRequester(ctx context.Context, email string) ([]*contributor.Request, error) {
	var reqs []*contributor.Request
	err := r.db.WithContext(ctx).
		Where("requester_email = ?", email).
		Order("created_at DESC, id DESC").
		Find(&reqs).Error
	if err != nil {
		r.log.Error("failed to retrieve requests by requester", "error", err)
		return nil, translateError(err, "failed to retrieve requests", "")
	}
	return reqs, nil
}

func (r *PostgresContributorRequestRepository) GetForOwner(ctx context.Context, ownerEmail string) ([]*contributor.Request, error) {
	var reqs []*contributor.Request
	q := r.db.WithContext(ctx).Model(&contributor.Request{}).Select("contributor_requests.*")
	if ownerEmail != "" {
		q = q.Joins("JOIN ideas ON ideas.id = contributor_requests.idea_id").
			Where("ideas.email = ?", ownerEmail)
	}
	if err := q.Order("contributor_requests.created_at DESC, contributor_requests.id DESC").Find(&reqs).Error; err != nil {
		r.log.Error("failed to retrieve requests for owner", "error", err)
		return nil, translateError(err, "failed to retrieve requests", "")
	}
	return reqs, nil
}

func (r *PostgresContributorRequestRepository) CountPendingForOwner(ctx context.Context, ownerEmail string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&contributor.Request{}).
		Where("contributor_requests.status = ?", contributor.StatusPending)
	if ownerEmail != "" {
		q = q.Joins("JOIN ideas ON ideas.id = contributor_requests.idea_id").
			Where("ideas.email = ?", ownerEmail)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, translateError(err, "failed to count pending requests", "")
	}
	return count, nil
}

func (r *PostgresContributorRequestRepository) Update(ctx context.Context, req *contributor.Request) error {
	result := r.db.WithContext(ctx).Model(&contributor.Request{}).Where("id = ?", req.ID).Updates(map[string]any{
		"status":       req.Status,
		"message":      req.Message,
		"responded_at": req.RespondedAt,
	})
	if result.Error != nil {
		r.log.Error("failed to update contributor request", "request_id", req.ID, "error", result.Error)
		return translateError(result.Error, "failed to update contributor request", "Request not found")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to update contributor request", "Request not found")
	}

	r.log.Info("contributor request updated", "request_id", req.ID, "status", req.Status)
	return nil
}
