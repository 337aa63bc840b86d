package services

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/participant"
	"github.com/gravadigital/hackathon-api/internal/repository"
)

// UserService keeps user profiles and the admin allow-list
type UserService struct {
	store repository.Container
	log   *log.Logger
}

// SaveProfile creates or refreshes the caller's profile. Users can only write their own.
func (s *UserService) SaveProfile(ctx context.Context, caller, name, profilePicture string) (*participant.User, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	u, err := participant.NewUser(name, caller, profilePicture)
	if err != nil {
		return nil, err
	}
	if err := s.store.Users().Upsert(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("User profile saved", "email", u.Email)
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*participant.User, error) {
	return s.store.Users().GetAll(ctx)
}

func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	return isAdmin(ctx, s.store, email)
}

// SeedAdmins adds every email to the allow-list. Used at startup.
func (s *UserService) SeedAdmins(ctx context.Context, emails []string) error {
	for _, email := range common.CleanList(emails) {
		if err := s.store.Users().AddAdmin(ctx, email); err != nil {
			return err
		}
		s.log.Info("Admin registered", "email", email)
	}
	return nil
}
