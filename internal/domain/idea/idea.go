package idea

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/validation"
)

// ErrContributorExists is wrapped by the error returned when an email is already listed.
var ErrContributorExists = errors.New("contributor already listed")

// Idea is a project proposal. Its base fields belong to the origin event (EventID);
// other member events may override them through EventMetadata.
type Idea struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email" gorm:"not null;index"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description" gorm:"type:text;not null"`
	Technologies pq.StringArray `json:"technologies" gorm:"type:text[]"`
	EventID      uint           `json:"event_id" gorm:"not null;index"`
	IsBuilt      bool           `json:"is_built" gorm:"not null;default:false"`
	Likes        int            `json:"likes" gorm:"not null;default:0"`
	AverageScore *float64       `json:"average_score"`
	Contributors pq.StringArray `json:"contributors" gorm:"type:text[]"`
	ImageURL     string         `json:"image_url"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	Membership Membership `json:"event_ids" gorm:"-"`
}

// TableName overrides the table name
func (Idea) TableName() string {
	return "ideas"
}

// Draft carries the user supplied fields of a new idea.
type Draft struct {
	Title        string
	Description  string
	Technologies []string
	EventID      uint
	IsBuilt      bool
	Contributors []string
	ImageURL     string
}

// NewIdea creates an idea owned by ownerEmail whose origin is draft.EventID
func NewIdea(ownerEmail string, draft Draft) (*Idea, error) {
	i := &Idea{
		Email:        common.NormalizeEmail(ownerEmail),
		Title:        strings.TrimSpace(draft.Title),
		Description:  strings.TrimSpace(draft.Description),
		Technologies: pq.StringArray(common.CleanList(draft.Technologies)),
		EventID:      draft.EventID,
		IsBuilt:      draft.IsBuilt,
		Contributors: pq.StringArray(dedupe(common.CleanList(draft.Contributors))),
		ImageURL:     strings.TrimSpace(draft.ImageURL),
		Membership:   Membership{draft.EventID},
	}
	if err := i.Validate(); err != nil {
		return nil, err
	}
	return i, nil
}

// Validate checks if the idea data is valid
func (i *Idea) Validate() error {
	if i.Email == "" {
		return common.Validation("owner email is required")
	}
	if err := validation.ValidateText(i.Title, validation.MaxTitleLength, "title"); err != nil {
		return err
	}
	if err := validation.ValidateText(i.Description, validation.MaxDescriptionLength, "description"); err != nil {
		return err
	}
	if err := validation.ValidateOptionalURL(i.ImageURL, "image_url"); err != nil {
		return err
	}
	if i.EventID == 0 {
		return common.Validation("event_id is required")
	}
	return nil
}

// IsOwner compares emails exactly
func (i *Idea) IsOwner(email string) bool {
	return i.Email == common.NormalizeEmail(email)
}

// IsContributor reports whether email is listed on the base contributor list
func (i *Idea) IsContributor(email string) bool {
	return common.ContainsExact(i.Contributors, email)
}

// IsMember reports whether the idea belongs to eventID
func (i *Idea) IsMember(eventID uint) bool {
	return i.Membership.Contains(eventID)
}

// AddContributor appends email to the base contributor list
func (i *Idea) AddContributor(email string) error {
	list, err := addContributor(i.Contributors, email)
	if err != nil {
		return err
	}
	i.Contributors = list
	return nil
}

// AddEvent adds eventID to the membership. It reports whether the membership changed.
func (i *Idea) AddEvent(eventID uint) bool {
	if i.IsMember(eventID) {
		return false
	}
	i.Membership = i.Membership.Add(eventID)
	return true
}

// RemoveEvent drops eventID from the membership. When the origin event is removed the
// first remaining event becomes the origin; its metadata, if any, is folded into the
// base fields. It reports whether the origin moved.
func (i *Idea) RemoveEvent(eventID uint, nextOrigin *EventMetadata) bool {
	i.Membership = i.Membership.Remove(eventID)
	if i.EventID != eventID {
		return false
	}
	next, ok := i.Membership.First()
	if !ok {
		return false
	}
	i.EventID = next
	if nextOrigin != nil && nextOrigin.EventID == next {
		i.ApplyDetails(nextOrigin)
	}
	return true
}

// ApplyDetails copies event-specific details onto the base idea.
// An empty image URL keeps the current image.
func (i *Idea) ApplyDetails(md *EventMetadata) {
	i.Description = md.Description
	i.Technologies = slices.Clone(md.Technologies)
	i.Contributors = slices.Clone(md.Contributors)
	i.IsBuilt = md.IsBuilt
	if md.ImageURL != "" {
		i.ImageURL = md.ImageURL
	}
}

func addContributor(list pq.StringArray, email string) (pq.StringArray, error) {
	email = common.NormalizeEmail(email)
	if email == "" {
		return list, common.Validation("contributor email is required")
	}
	if common.ContainsExact(list, email) {
		return list, &common.Error{Kind: common.KindValidation, Message: "Contributor already added", Err: ErrContributorExists}
	}
	return append(slices.Clone(list), email), nil
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
