// Package services holds the business rules of the hackathon API on top of the repository contracts.
package services

import (
	"context"
	"io"
	"time"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/logger"
	"github.com/gravadigital/hackathon-api/internal/repository"
)

// ImageStore persists uploaded images and returns their public URL
type ImageStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// Options tunes the services
type Options struct {
	MaxIdeasPerEvent int64
	MaxImageSize     int64
	// Images may be nil, in which case uploads are rejected as unavailable
	Images ImageStore
}

// Services groups every service sharing one repository container
type Services struct {
	Events       *EventService
	Ideas        *IdeaService
	Voting       *VotingService
	Results      *ResultService
	Contributors *ContributorService
	Users        *UserService
}

// New wires the services over store
func New(store repository.Container, opts Options) *Services {
	results := &ResultService{store: store, log: logger.Service("results")}
	return &Services{
		Events:  &EventService{store: store, results: results, log: logger.Service("events")},
		Results: results,
		Ideas: &IdeaService{
			store:            store,
			maxIdeasPerEvent: opts.MaxIdeasPerEvent,
			maxImageSize:     opts.MaxImageSize,
			images:           opts.Images,
			log:              logger.Service("ideas"),
		},
		Voting:       &VotingService{store: store, log: logger.Service("voting")},
		Contributors: &ContributorService{store: store, log: logger.Service("contributors")},
		Users:        &UserService{store: store, log: logger.Service("users")},
	}
}

var now = func() time.Time {
	return time.Now().UTC()
}

func requireUser(email string) error {
	if common.NormalizeEmail(email) == "" {
		return common.Forbidden("Authentication required")
	}
	return nil
}
