package services

import (
	"context"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/repository"
)

// Authorization helpers take the container explicitly so checks made inside a
// transaction read through that transaction.

func isAdmin(ctx context.Context, store repository.Container, email string) (bool, error) {
	email = common.NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	return store.Users().IsAdmin(ctx, email)
}

func requireAdmin(ctx context.Context, store repository.Container, email, action string) error {
	if err := requireUser(email); err != nil {
		return err
	}
	ok, err := isAdmin(ctx, store, email)
	if err != nil {
		return err
	}
	if !ok {
		logger.Auth().Warn("Admin action denied", "user", email, "action", action)
		return common.Forbidden("Unauthorized: only admins can %s", action)
	}
	return nil
}

// requireOwnerOrAdmin lets the owner through without touching the allow-list
func requireOwnerOrAdmin(ctx context.Context, store repository.Container, email, owner, action string) error {
	if err := requireUser(email); err != nil {
		return err
	}
	if common.NormalizeEmail(email) == owner {
		return nil
	}
	ok, err := isAdmin(ctx, store, email)
	if err != nil {
		return err
	}
	if !ok {
		logger.Auth().Warn("Owner action denied", "user", email, "owner", owner, "action", action)
		return common.Forbidden("Unauthorized: only the owner or admins can %s", action)
	}
	return nil
}
