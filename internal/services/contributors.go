package services

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/contributor"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/repository"
)

// ContributorService handles requests to join someone else's project
type ContributorService struct {
	store repository.Container
	log   *log.Logger
}

// CreateRequestInput is a request to contribute to an idea inside one event
type CreateRequestInput struct {
	IdeaID  uint
	EventID uint
	Message string
}

// Create files a pending request. The requester may not already be a contributor
// and may hold at most one pending request per idea and event.
func (s *ContributorService) Create(ctx context.Context, requester string, in CreateRequestInput) (*contributor.Request, error) {
	req, err := contributor.NewRequest(in.IdeaID, in.EventID, requester, in.Message)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx repository.Container) error {
		i, err := tx.Ideas().GetByID(ctx, in.IdeaID)
		if err != nil {
			return err
		}
		if !i.IsMember(in.EventID) {
			return common.NotFound("Idea is not part of this event")
		}
		if i.IsOwner(req.RequesterEmail) {
			return common.Validation("You own this project")
		}

		md, err := metadataOrNil(ctx, tx, in.IdeaID, in.EventID)
		if err != nil {
			return err
		}
		if common.ContainsExact(idea.ResolveView(i, in.EventID, md).Contributors, req.RequesterEmail) {
			return common.Validation("You are already a contributor on this project")
		}

		pending, err := tx.ContributorRequests().HasPending(ctx, in.IdeaID, in.EventID, req.RequesterEmail)
		if err != nil {
			return err
		}
		if pending {
			return common.Validation("You already have a pending request for this project")
		}
		return tx.ContributorRequests().Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Contributor request created", "request_id", req.ID, "idea_id", req.IdeaID, "event_id", req.EventID, "requester", req.RequesterEmail)
	return req, nil
}

// Pending lists the open requests for an idea in an event, oldest first
func (s *ContributorService) Pending(ctx context.Context, ideaID, eventID uint) ([]*contributor.Request, error) {
	return s.store.ContributorRequests().GetPending(ctx, ideaID, eventID)
}

// Mine lists every request the user made, newest first
func (s *ContributorService) Mine(ctx context.Context, requester string) ([]*contributor.Request, error) {
	if err := requireUser(requester); err != nil {
		return nil, err
	}
	return s.store.ContributorRequests().GetByRequester(ctx, common.NormalizeEmail(requester))
}

// ForMyProjects lists pending requests on the user's ideas. Admins see every pending request.
func (s *ContributorService) ForMyProjects(ctx context.Context, user string) ([]*contributor.Request, error) {
	owner, err := s.ownerScope(ctx, user)
	if err != nil {
		return nil, err
	}

	all, err := s.store.ContributorRequests().GetForOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	pending := make([]*contributor.Request, 0, len(all))
	for _, r := range all {
		if r.IsPending() {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// PendingCount counts what ForMyProjects would return
func (s *ContributorService) PendingCount(ctx context.Context, user string) (int64, error) {
	owner, err := s.ownerScope(ctx, user)
	if err != nil {
		return 0, err
	}
	return s.store.ContributorRequests().CountPendingForOwner(ctx, owner)
}

// ownerScope returns "" for admins, meaning every owner
func (s *ContributorService) ownerScope(ctx context.Context, user string) (string, error) {
	if err := requireUser(user); err != nil {
		return "", err
	}
	admin, err := isAdmin(ctx, s.store, user)
	if err != nil {
		return "", err
	}
	if admin {
		return "", nil
	}
	return common.NormalizeEmail(user), nil
}

// Accept adds the requester to the contributors of the idea in the request's event.
// Idea owner or admin.
func (s *ContributorService) Accept(ctx context.Context, actor string, requestID uint) (*contributor.Request, error) {
	return s.respond(ctx, actor, requestID, true)
}

// Decline closes the request without changes to the idea. Idea owner or admin.
func (s *ContributorService) Decline(ctx context.Context, actor string, requestID uint) (*contributor.Request, error) {
	return s.respond(ctx, actor, requestID, false)
}

func (s *ContributorService) respond(ctx context.Context, actor string, requestID uint, accept bool) (*contributor.Request, error) {
	var req *contributor.Request
	err := s.store.Transaction(ctx, func(tx repository.Container) error {
		var err error
		req, err = tx.ContributorRequests().GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !req.IsPending() {
			return common.NotFound("Request not found or already processed")
		}

		i, err := tx.Ideas().GetByID(ctx, req.IdeaID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAdmin(ctx, tx, actor, i.Email, "respond to this request"); err != nil {
			return err
		}

		at := now()
		if !accept {
			if err := req.Decline(at); err != nil {
				return err
			}
			return tx.ContributorRequests().Update(ctx, req)
		}

		if err := req.Accept(at); err != nil {
			return err
		}
		if _, err := addContributor(ctx, tx, i, req.EventID, req.RequesterEmail); err != nil && !alreadyListed(err) {
			return err
		}
		return tx.ContributorRequests().Update(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Contributor request answered", "request_id", req.ID, "status", req.Status, "by", actor)
	return req, nil
}

// alreadyListed treats a requester who was added by hand in the meantime as accepted
func alreadyListed(err error) bool {
	return errors.Is(err, idea.ErrContributorExists)
}
