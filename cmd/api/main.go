package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/hackathon-api/internal/config"
	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/metrics"
	"github.com/gravadigital/hackathon-api/internal/server"
	"github.com/gravadigital/hackathon-api/internal/services"
	"github.com/gravadigital/hackathon-api/internal/storage"
	"github.com/gravadigital/hackathon-api/internal/storage/objectstore"
)

// devJWTSecret is only accepted outside production
const devJWTSecret = "hackathon-dev-secret"

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Server.LogLevel)
	log := logger.Get()

	if err := run(cfg); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()

	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		log.Warn("JWT_SECRET not set, using the development secret")
		cfg.Auth.JWTSecret = devJWTSecret
	}

	metrics.Register()

	factory, err := storage.FromConfig(cfg)
	if err != nil {
		return err
	}
	store, err := factory.CreateContainer(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close storage", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := services.Options{
		MaxIdeasPerEvent: cfg.Hackathon.MaxIdeasPerEvent,
		MaxImageSize:     cfg.Upload.MaxFileSize,
	}
	if cfg.ObjectStoreEnabled() {
		images, err := objectstore.NewMinIOStore(ctx, cfg)
		if err != nil {
			return err
		}
		opts.Images = images
	} else {
		log.Warn("MINIO_ENDPOINT not set, image uploads are disabled")
	}

	svcs := services.New(store, opts)
	if err := svcs.Users.SeedAdmins(ctx, cfg.Auth.AdminEmails); err != nil {
		return err
	}

	srv := server.New(cfg, store, svcs)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}
