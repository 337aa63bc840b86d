package services

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lib/pq"

	"github.com/gravadigital/hackathon-api/internal/domain/attachment"
	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/domain/event"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/repository"
)

// IdeaService manages ideas and their membership in events
type IdeaService struct {
	store            repository.Container
	maxIdeasPerEvent int64
	maxImageSize     int64
	images           ImageStore
	log              *log.Logger
}

// IdeaDetail is an idea with the title of its origin event
type IdeaDetail struct {
	*idea.Idea
	EventTitle string `json:"event_title"`
}

// UpdateIdeaInput holds optional changes; nil fields are left alone.
// When EventID names a member event other than the origin, the content fields
// are written to that event's metadata instead of the base idea.
type UpdateIdeaInput struct {
	EventID      uint
	Title        *string
	Description  *string
	Technologies *[]string
	Contributors *[]string
	IsBuilt      *bool
	ImageURL     *string
}

// ImageUpload is an image file posted for an idea
type ImageUpload struct {
	EventID     uint
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Submit creates an idea in an event that is accepting submissions
func (s *IdeaService) Submit(ctx context.Context, owner string, draft idea.Draft) (*idea.Idea, error) {
	if err := requireUser(owner); err != nil {
		return nil, err
	}

	i, err := idea.NewIdea(owner, draft)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx repository.Container) error {
		if _, err := openForIdeas(ctx, tx, draft.EventID); err != nil {
			return err
		}
		if s.maxIdeasPerEvent > 0 {
			count, err := tx.Ideas().CountByOwnerAndEvent(ctx, i.Email, draft.EventID)
			if err != nil {
				return err
			}
			if count >= s.maxIdeasPerEvent {
				return common.Validation("You can only submit up to %d ideas per event.", s.maxIdeasPerEvent)
			}
		}
		return tx.Ideas().Create(ctx, i)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Idea submitted", "idea_id", i.ID, "event_id", i.EventID, "owner", i.Email)
	return i, nil
}

func (s *IdeaService) Get(ctx context.Context, id uint) (*IdeaDetail, error) {
	i, err := s.store.Ideas().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &IdeaDetail{Idea: i}
	e, err := s.store.Events().GetByID(ctx, i.EventID)
	switch {
	case err == nil:
		detail.EventTitle = e.Title
	case !common.IsNotFound(err):
		return nil, err
	}
	return detail, nil
}

func (s *IdeaService) List(ctx context.Context) ([]*idea.Idea, error) {
	return s.store.Ideas().GetAll(ctx)
}

func (s *IdeaService) ListByOwner(ctx context.Context, email string) ([]*idea.Idea, error) {
	return s.store.Ideas().GetByOwner(ctx, common.NormalizeEmail(email))
}

func (s *IdeaService) ListByContributor(ctx context.Context, email string) ([]*idea.Idea, error) {
	return s.store.Ideas().GetByContributor(ctx, common.NormalizeEmail(email))
}

// ViewForEvent resolves the idea as it appears inside eventID
func (s *IdeaService) ViewForEvent(ctx context.Context, id, eventID uint) (idea.View, error) {
	i, err := s.store.Ideas().GetByID(ctx, id)
	if err != nil {
		return idea.View{}, err
	}
	if !i.IsMember(eventID) {
		return idea.View{}, common.NotFound("Idea is not part of this event")
	}

	md, err := metadataOrNil(ctx, s.store, id, eventID)
	if err != nil {
		return idea.View{}, err
	}
	return idea.ResolveView(i, eventID, md), nil
}

// Update edits an idea. Owner or admin.
func (s *IdeaService) Update(ctx context.Context, actor string, id uint, in UpdateIdeaInput) (idea.View, error) {
	var view idea.View
	err := s.store.Transaction(ctx, func(tx repository.Container) error {
		i, err := tx.Ideas().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAdmin(ctx, tx, actor, i.Email, "edit this idea"); err != nil {
			return err
		}

		eventID := in.EventID
		if eventID == 0 {
			eventID = i.EventID
		}
		if !i.IsMember(eventID) {
			return common.NotFound("Idea is not part of this event")
		}

		if in.Title != nil {
			i.Title = strings.TrimSpace(*in.Title)
		}

		md, err := metadataOrNil(ctx, tx, id, eventID)
		if err != nil {
			return err
		}
		if md == nil && eventID == i.EventID {
			applyContent(&i.Description, &i.Technologies, &i.Contributors, &i.IsBuilt, &i.ImageURL, in)
			if err := tx.Ideas().Update(ctx, i); err != nil {
				return err
			}
			view = idea.ResolveView(i, eventID, nil)
			return nil
		}

		if in.Title != nil {
			if err := tx.Ideas().Update(ctx, i); err != nil {
				return err
			}
		}
		if md == nil {
			md = idea.SeedMetadata(i, eventID)
		}
		applyContent(&md.Description, &md.Technologies, &md.Contributors, &md.IsBuilt, &md.ImageURL, in)
		if err := tx.Ideas().UpsertMetadata(ctx, md); err != nil {
			return err
		}
		view = idea.ResolveView(i, eventID, md)
		return nil
	})
	if err != nil {
		return idea.View{}, err
	}

	s.log.Info("Idea updated", "idea_id", id, "event_id", view.EventID, "by", actor)
	return view, nil
}

func applyContent(description *string, technologies, contributors *pq.StringArray, isBuilt *bool, imageURL *string, in UpdateIdeaInput) {
	if in.Description != nil {
		*description = strings.TrimSpace(*in.Description)
	}
	if in.Technologies != nil {
		*technologies = pq.StringArray(common.CleanList(*in.Technologies))
	}
	if in.Contributors != nil {
		*contributors = pq.StringArray(uniqueList(common.CleanList(*in.Contributors)))
	}
	if in.IsBuilt != nil {
		*isBuilt = *in.IsBuilt
	}
	if in.ImageURL != nil {
		*imageURL = strings.TrimSpace(*in.ImageURL)
	}
}

// Delete removes an idea from every event. Owner or admin.
func (s *IdeaService) Delete(ctx context.Context, actor string, id uint) error {
	i, err := s.store.Ideas().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(ctx, s.store, actor, i.Email, "delete this idea"); err != nil {
		return err
	}
	if err := s.store.Ideas().Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Idea deleted", "idea_id", id, "by", actor)
	return nil
}

// AddEvent enters an existing idea into another event with event-specific details.
// Adding an event the idea already belongs to only refreshes the details; for the
// origin event that means the base idea itself.
func (s *IdeaService) AddEvent(ctx context.Context, actor string, id, eventID uint, override idea.Override) (idea.View, error) {
	md, err := idea.NewEventMetadata(id, eventID, override)
	if err != nil {
		return idea.View{}, err
	}

	var view idea.View
	err = s.store.Transaction(ctx, func(tx repository.Container) error {
		i, err := tx.Ideas().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAdmin(ctx, tx, actor, i.Email, "add this idea to events"); err != nil {
			return err
		}
		if _, err := openForIdeas(ctx, tx, eventID); err != nil {
			return err
		}

		if eventID == i.EventID {
			i.ApplyDetails(md)
			if err := tx.Ideas().Update(ctx, i); err != nil {
				return err
			}
			view = idea.ResolveView(i, eventID, nil)
			return nil
		}

		if i.AddEvent(eventID) {
			if err := tx.Ideas().AddMembership(ctx, id, eventID); err != nil {
				return err
			}
		}
		if err := tx.Ideas().UpsertMetadata(ctx, md); err != nil {
			return err
		}
		view = idea.ResolveView(i, eventID, md)
		return nil
	})
	if err != nil {
		return idea.View{}, err
	}

	s.log.Info("Idea added to event", "idea_id", id, "event_id", eventID, "by", actor)
	return view, nil
}

// RemoveEvent takes an idea out of one event. The idea is deleted when it was the
// last event; it reports whether that happened. Owner or admin.
func (s *IdeaService) RemoveEvent(ctx context.Context, actor string, id, eventID uint) (deleted bool, err error) {
	err = s.store.Transaction(ctx, func(tx repository.Container) error {
		i, err := tx.Ideas().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAdmin(ctx, tx, actor, i.Email, "remove this idea from events"); err != nil {
			return err
		}
		if !i.IsMember(eventID) {
			return common.NotFound("Idea is not part of this event")
		}

		deleted, err = detachEvent(ctx, tx, i, eventID)
		return err
	})
	if err != nil {
		return false, err
	}

	s.log.Info("Idea removed from event", "idea_id", id, "event_id", eventID, "idea_deleted", deleted, "by", actor)
	return deleted, nil
}

// detachEvent drops eventID from a member idea together with its votes, details and
// won results there. Losing the origin promotes the next member event; losing the
// last event deletes the idea.
func detachEvent(ctx context.Context, tx repository.Container, i *idea.Idea, eventID uint) (deleted bool, err error) {
	if len(i.Membership) == 1 {
		return true, tx.Ideas().Delete(ctx, i.ID)
	}

	if i.EventID == eventID {
		next, _ := i.Membership.Remove(eventID).First()
		md, err := metadataOrNil(ctx, tx, i.ID, next)
		if err != nil {
			return false, err
		}
		i.RemoveEvent(eventID, md)
		if err := tx.Ideas().Update(ctx, i); err != nil {
			return false, err
		}
		if md != nil {
			if err := tx.Ideas().DeleteMetadata(ctx, i.ID, next); err != nil {
				return false, err
			}
		}
	}

	if err := tx.Votes().DeleteIdeaVotes(ctx, i.ID, eventID); err != nil {
		return false, err
	}
	if err := tx.Results().DeleteByEventAndIdea(ctx, eventID, i.ID); err != nil {
		return false, err
	}
	if err := tx.Ideas().DeleteMetadata(ctx, i.ID, eventID); err != nil {
		return false, err
	}
	return false, tx.Ideas().RemoveMembership(ctx, i.ID, eventID)
}

// AddContributor lists email as a contributor. A zero eventID or the origin event
// updates the base list; any other member event updates that event's list. Owner or admin.
func (s *IdeaService) AddContributor(ctx context.Context, actor string, id, eventID uint, email string) (idea.View, error) {
	email = common.NormalizeEmail(email)
	if email == "" {
		return idea.View{}, common.Validation("Missing contributor email")
	}

	var view idea.View
	err := s.store.Transaction(ctx, func(tx repository.Container) error {
		i, err := tx.Ideas().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAdmin(ctx, tx, actor, i.Email, "add contributors"); err != nil {
			return err
		}

		view, err = addContributor(ctx, tx, i, eventID, email)
		return err
	})
	if err != nil {
		return idea.View{}, err
	}

	s.log.Info("Contributor added", "idea_id", id, "event_id", view.EventID, "contributor", email, "by", actor)
	return view, nil
}

// addContributor writes email into the contributor list that eventID resolves to
func addContributor(ctx context.Context, tx repository.Container, i *idea.Idea, eventID uint, email string) (idea.View, error) {
	if eventID == 0 {
		eventID = i.EventID
	}
	if !i.IsMember(eventID) {
		return idea.View{}, common.NotFound("Idea is not part of this event")
	}

	md, err := metadataOrNil(ctx, tx, i.ID, eventID)
	if err != nil {
		return idea.View{}, err
	}

	if md == nil && eventID == i.EventID {
		if err := i.AddContributor(email); err != nil {
			return idea.View{}, err
		}
		if err := tx.Ideas().Update(ctx, i); err != nil {
			return idea.View{}, err
		}
		return idea.ResolveView(i, eventID, nil), nil
	}

	if md == nil {
		md = idea.SeedMetadata(i, eventID)
	}
	if err := md.AddContributor(email); err != nil {
		return idea.View{}, err
	}
	if err := tx.Ideas().UpsertMetadata(ctx, md); err != nil {
		return idea.View{}, err
	}
	return idea.ResolveView(i, eventID, md), nil
}

// UploadImage stores an image and attaches its URL to the idea, or to the
// event-specific details when EventID names a non-origin event. Owner or admin.
func (s *IdeaService) UploadImage(ctx context.Context, actor string, id uint, upload ImageUpload) (idea.View, error) {
	if s.images == nil {
		return idea.View{}, common.Unavailable("Image uploads are not configured", nil)
	}

	i, err := s.store.Ideas().GetByID(ctx, id)
	if err != nil {
		return idea.View{}, err
	}
	if err := requireOwnerOrAdmin(ctx, s.store, actor, i.Email, "upload images for this idea"); err != nil {
		return idea.View{}, err
	}

	eventID := upload.EventID
	if eventID == 0 {
		eventID = i.EventID
	}
	if !i.IsMember(eventID) {
		return idea.View{}, common.NotFound("Idea is not part of this event")
	}

	img, err := attachment.NewImage(id, eventID, upload.Name, upload.ContentType, upload.Size, s.maxImageSize)
	if err != nil {
		return idea.View{}, err
	}
	url, err := s.images.Put(ctx, img.ObjectKey, upload.Body, img.Size, img.ContentType)
	if err != nil {
		return idea.View{}, common.Unavailable("Failed to store image", err)
	}

	return s.Update(ctx, actor, id, UpdateIdeaInput{EventID: eventID, ImageURL: &url})
}

// openForIdeas loads an event and checks it is still taking submissions
func openForIdeas(ctx context.Context, tx repository.Container, eventID uint) (*event.Event, error) {
	if eventID == 0 {
		return nil, common.Validation("Invalid event ID")
	}
	e, err := tx.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !e.AcceptsIdeas() {
		return nil, common.Validation("Event %q is not accepting ideas (current stage: %s)", e.Title, e.Stage)
	}
	return e, nil
}

func metadataOrNil(ctx context.Context, store repository.Container, ideaID, eventID uint) (*idea.EventMetadata, error) {
	md, err := store.Ideas().GetMetadata(ctx, ideaID, eventID)
	if common.IsNotFound(err) {
		return nil, nil
	}
	return md, err
}

func uniqueList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !common.ContainsExact(out, v) {
			out = append(out, v)
		}
	}
	return out
}
