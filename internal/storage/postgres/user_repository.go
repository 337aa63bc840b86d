package postgres

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/participant"
	"github.com/gravadigital/hackathon-api/internal/logger"
)

// PostgresUserRepository implements UserRepository using GORM
type PostgresUserRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{
		db:  db,
		log: logger.Repository("user"),
	}
}

// Upsert creates the profile or refreshes its name and picture
func (r *PostgresUserRepository) Upsert(ctx context.Context, user *participant.User) error {
	r.log.Debug("Upserting user", "email", user.Email)

	if user.Email == "" {
		return common.Validation("email cannot be empty")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "profile_picture", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		r.log.Error("Failed to upsert user", "error", err, "email", user.Email)
		return translateError(err, "failed to upsert user", "")
	}

	r.log.Info("User stored successfully", "id", user.ID, "email", user.Email)
	return nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*participant.User, error) {
	if email == "" {
		return nil, common.Validation("email cannot be empty")
	}

	var user participant.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("Failed to get user by email", "email", email, "error", err)
		}
		return nil, translateError(err, "failed to get user by email", "User not found")
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetAll(ctx context.Context) ([]*participant.User, error) {
	var users []*participant.User
	if err := r.db.WithContext(ctx).Order("name ASC, email ASC").Find(&users).Error; err != nil {
		r.log.Error("Failed to get all users", "error", err)
		return nil, translateError(err, "failed to get users", "")
	}

	r.log.Debug("Retrieved all users", "count", len(users))
	return users, nil
}

func (r *PostgresUserRepository) IsAdmin(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&participant.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		r.log.Error("Failed to check admin", "email", email, "error", err)
		return false, translateError(err, "failed to check admin", "")
	}
	return count > 0, nil
}

// AddAdmin grants admin rights; granting twice is a no-op
func (r *PostgresUserRepository) AddAdmin(ctx context.Context, email string) error {
	if email == "" {
		return common.Validation("email cannot be empty")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&participant.Admin{Email: email}).Error
	if err != nil {
		r.log.Error("Failed to add admin", "email", email, "error", err)
		return translateError(err, "failed to add admin", "")
	}

	r.log.Info("Admin granted", "email", email)
	return nil
}
