package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/gravadigital/hackathon-api/internal/config"
	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/storage/migrations"
)

const (
	connectAttempts = 3
	pingTimeout     = 5 * time.Second
)

// poolStats is the slice of sql.DBStats the container logs
type poolStats struct {
	Open  int
	InUse int
	Idle  int
}

// Connect opens the hackathon database, retrying with backoff, and sizes the pool from cfg.DB
func Connect(cfg *config.Config) (*gorm.DB, error) {
	log := logger.Database()

	if err := validateDatabaseConfig(cfg); err != nil {
		log.Error("Database configuration validation failed", "error", err)
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	log.Debug("Connecting to database", "host", cfg.DB.Host, "port", cfg.DB.Port, "database", cfg.DB.Name)

	level := gormLogger.Silent
	if cfg.Server.GinMode == "debug" && cfg.Server.LogLevel == "debug" {
		level = gormLogger.Info
	}
	gormConfig := &gorm.Config{
		Logger:         gormLogger.Default.LogMode(level),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		PrepareStmt:    true,
		TranslateError: true,
	}

	var (
		db    *gorm.DB
		err   error
		delay = 2 * time.Second
	)
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(cfg.GetDatabaseURL()), gormConfig)
		if err == nil {
			break
		}
		log.Warn("Database connection failed", "attempt", attempt, "error", err)
		if attempt < connectAttempts {
			time.Sleep(delay)
			delay *= 2
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err := HealthCheck(context.Background(), db); err != nil {
		log.Error("Database connection test failed", "error", err)
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}

	log.Info("Connected to PostgreSQL",
		"host", cfg.DB.Host,
		"database", cfg.DB.Name,
		"max_open_conns", cfg.DB.MaxOpenConns,
		"max_idle_conns", cfg.DB.MaxIdleConns)
	return db, nil
}

func validateDatabaseConfig(cfg *config.Config) error {
	switch {
	case cfg == nil:
		return fmt.Errorf("config cannot be nil")
	case cfg.DB.Host == "":
		return fmt.Errorf("database host cannot be empty")
	case cfg.DB.Port == "":
		return fmt.Errorf("database port cannot be empty")
	case cfg.DB.Name == "":
		return fmt.Errorf("database name cannot be empty")
	case cfg.DB.User == "":
		return fmt.Errorf("database user cannot be empty")
	}
	return nil
}

func stats(db *gorm.DB) poolStats {
	sqlDB, err := db.DB()
	if err != nil {
		return poolStats{}
	}
	s := sqlDB.Stats()
	return poolStats{Open: s.OpenConnections, InUse: s.InUse, Idle: s.Idle}
}

// HealthCheck pings the database, bounded by ctx or pingTimeout when ctx has no deadline
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pingTimeout)
		defer cancel()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// AutoMigrate applies every pending migration
func AutoMigrate(db *gorm.DB) error {
	log := logger.Migration()

	if err := HealthCheck(context.Background(), db); err != nil {
		log.Error("Database health check failed before migrations", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	start := time.Now()
	if err := migrations.RunMigrations(db); err != nil {
		log.Error("Database migrations failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed", "duration", time.Since(start))
	return nil
}

// CloseDB closes the connection pool behind db
func CloseDB(db *gorm.DB) error {
	log := logger.Database()

	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	s := stats(db)
	log.Debug("Closing database", "open_connections", s.Open, "in_use_connections", s.InUse)

	if err := sqlDB.Close(); err != nil {
		log.Error("Failed to close database connection", "error", err)
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	log.Info("Database connection closed")
	return nil
}
