package idea

import (
	"slices"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/validation"
)

// EventMetadata overrides an idea's base fields inside one event.
type EventMetadata struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	IdeaID       uint           `json:"idea_id" gorm:"not null;uniqueIndex:idx_idea_event_metadata_idea_event,priority:1"`
	EventID      uint           `json:"event_id" gorm:"not null;uniqueIndex:idx_idea_event_metadata_idea_event,priority:2;index"`
	Description  string         `json:"description" gorm:"type:text;not null"`
	Technologies pq.StringArray `json:"technologies" gorm:"type:text[]"`
	Contributors pq.StringArray `json:"contributors" gorm:"type:text[]"`
	IsBuilt      bool           `json:"is_built" gorm:"not null;default:false"`
	ImageURL     string         `json:"image_url"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (EventMetadata) TableName() string {
	return "idea_event_metadata"
}

// Override is the caller supplied event-specific content for an idea.
type Override struct {
	Description  string
	Technologies []string
	Contributors []string
	IsBuilt      bool
	ImageURL     string
}

// NewEventMetadata validates o and builds the metadata row for (ideaID, eventID).
func NewEventMetadata(ideaID, eventID uint, o Override) (*EventMetadata, error) {
	md := &EventMetadata{
		IdeaID:       ideaID,
		EventID:      eventID,
		Description:  strings.TrimSpace(o.Description),
		Technologies: pq.StringArray(common.CleanList(o.Technologies)),
		Contributors: pq.StringArray(dedupe(common.CleanList(o.Contributors))),
		IsBuilt:      o.IsBuilt,
		ImageURL:     strings.TrimSpace(o.ImageURL),
	}
	if err := md.Validate(); err != nil {
		return nil, err
	}
	return md, nil
}

func (m *EventMetadata) Validate() error {
	if strings.TrimSpace(m.Description) == "" {
		return common.Validation("description is required for event-specific idea details")
	}
	if err := validation.ValidateMaxLength(m.Description, validation.MaxDescriptionLength, "description"); err != nil {
		return err
	}
	return validation.ValidateOptionalURL(m.ImageURL, "image_url")
}

// AddContributor appends email to the event-specific contributor list
func (m *EventMetadata) AddContributor(email string) error {
	list, err := addContributor(m.Contributors, email)
	if err != nil {
		return err
	}
	m.Contributors = list
	return nil
}

// SeedMetadata copies the resolved view of an idea into a fresh metadata row for eventID.
func SeedMetadata(i *Idea, eventID uint) *EventMetadata {
	return &EventMetadata{
		IdeaID:       i.ID,
		EventID:      eventID,
		Description:  i.Description,
		Technologies: slices.Clone(i.Technologies),
		Contributors: slices.Clone(i.Contributors),
		IsBuilt:      i.IsBuilt,
		ImageURL:     i.ImageURL,
	}
}

// View is an idea as seen from one event.
type View struct {
	ID            uint       `json:"id"`
	EventID       uint       `json:"event_id"`
	OriginEventID uint       `json:"origin_event_id"`
	Email         string     `json:"email"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Technologies  []string   `json:"technologies"`
	Contributors  []string   `json:"contributors"`
	IsBuilt       bool       `json:"is_built"`
	ImageURL      string     `json:"image_url"`
	Likes         int        `json:"likes"`
	AverageScore  *float64   `json:"average_score"`
	EventIDs      Membership `json:"event_ids"`
	EventSpecific bool       `json:"event_specific"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ResolveView returns the event-specific fields from md when it belongs to (i, eventID),
// and the base fields otherwise.
func ResolveView(i *Idea, eventID uint, md *EventMetadata) View {
	v := View{
		ID:            i.ID,
		EventID:       eventID,
		OriginEventID: i.EventID,
		Email:         i.Email,
		Title:         i.Title,
		Description:   i.Description,
		Technologies:  nonNil(i.Technologies),
		Contributors:  nonNil(i.Contributors),
		IsBuilt:       i.IsBuilt,
		ImageURL:      i.ImageURL,
		Likes:         i.Likes,
		AverageScore:  i.AverageScore,
		EventIDs:      i.Membership,
		CreatedAt:     i.CreatedAt,
	}

	if md == nil || md.IdeaID != i.ID || md.EventID != eventID {
		return v
	}

	v.Description = md.Description
	v.Technologies = nonNil(md.Technologies)
	v.Contributors = nonNil(md.Contributors)
	v.IsBuilt = md.IsBuilt
	if md.ImageURL != "" {
		v.ImageURL = md.ImageURL
	}
	v.EventSpecific = true
	return v
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}
