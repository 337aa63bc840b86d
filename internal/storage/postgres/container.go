package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/hackathon-api/internal/config"
	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/repository"
)

// Container implements repository.Container on top of a GORM connection.
// A container built inside Transaction shares one *gorm.DB transaction across all repositories.
type Container struct {
	db              *gorm.DB
	log             *log.Logger
	inTx            bool
	eventRepo       *PostgresEventRepository
	ideaRepo        *PostgresIdeaRepository
	voteRepo        *PostgresVoteRepository
	resultRepo      *PostgresResultRepository
	userRepo        *PostgresUserRepository
	contributorRepo *PostgresContributorRequestRepository
}

// NewContainer creates a new repository container with all repositories initialized
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := container.Health(ctx); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return newContainer(db, false)
}

func newContainer(db *gorm.DB, inTx bool) *Container {
	name := "postgres_container"
	if inTx {
		name = "postgres_transaction"
	}
	return &Container{
		db:              db,
		log:             logger.Repository(name),
		inTx:            inTx,
		eventRepo:       NewPostgresEventRepository(db),
		ideaRepo:        NewPostgresIdeaRepository(db),
		voteRepo:        NewPostgresVoteRepository(db),
		resultRepo:      NewPostgresResultRepository(db),
		userRepo:        NewPostgresUserRepository(db),
		contributorRepo: NewPostgresContributorRequestRepository(db),
	}
}

// Events returns the event repository
func (c *Container) Events() repository.EventRepository {
	return c.eventRepo
}

// Ideas returns the idea repository
func (c *Container) Ideas() repository.IdeaRepository {
	return c.ideaRepo
}

// Votes returns the vote repository
func (c *Container) Votes() repository.VoteRepository {
	return c.voteRepo
}

// Results returns the result repository
func (c *Container) Results() repository.ResultRepository {
	return c.resultRepo
}

// Users returns the user repository
func (c *Container) Users() repository.UserRepository {
	return c.userRepo
}

// ContributorRequests returns the contributor request repository
func (c *Container) ContributorRequests() repository.ContributorRequestRepository {
	return c.contributorRepo
}

// Transaction runs fn inside a database transaction. Nested calls use savepoints.
func (c *Container) Transaction(ctx context.Context, fn func(tx repository.Container) error) error {
	c.log.Debug("Database transaction started")

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newContainer(tx, true))
	})
	if err != nil {
		c.log.Debug("Database transaction rolled back", "error", err)
		return err
	}

	c.log.Debug("Database transaction committed successfully")
	return nil
}

// Health performs a health check on the database connection and every table the repositories use
func (c *Container) Health(ctx context.Context) error {
	c.log.Debug("Performing container health check...")

	if err := HealthCheck(ctx, c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	s := stats(c.db)
	c.log.Debug("Database connection pool",
		"open_connections", s.Open,
		"in_use_connections", s.InUse,
		"idle_connections", s.Idle)

	for _, table := range []string{"events", "ideas", "idea_events", "category_votes", "ratings", "likes", "results", "users", "admins", "contributor_requests"} {
		var count int64
		if err := c.db.WithContext(ctx).Table(table).Limit(1).Count(&count).Error; err != nil {
			c.log.Error("Repository health check failed", "table", table, "error", err)
			return fmt.Errorf("table %s health check failed: %w", table, err)
		}
	}

	c.log.Debug("Container health check completed successfully")
	return nil
}

// Close gracefully shuts down the container and closes database connections
func (c *Container) Close() error {
	if c.inTx {
		return nil
	}

	c.log.Info("Closing PostgreSQL repository container...")

	if c.db == nil {
		c.log.Warn("Database connection is nil, nothing to close")
		return nil
	}

	if err := CloseDB(c.db); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	c.db = nil

	c.log.Info("PostgreSQL repository container closed successfully")
	return nil
}
