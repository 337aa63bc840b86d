package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/validation"
)

// MaxSubStage is the number of category rounds inside the voting stage.
const MaxSubStage = 3

// Event is a hackathon edition that ideas are submitted to and voted in.
type Event struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"not null"`
	EventDate       time.Time `json:"event_date" gorm:"type:date;not null"`
	Stage           Stage     `json:"stage" gorm:"not null;default:1"`
	CurrentSubStage int       `json:"current_sub_stage" gorm:"not null;default:1"`
	Link            string    `json:"link"`
	ImageURL        string    `json:"image_url"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

// NewEvent creates an event open for idea submissions
func NewEvent(title string, eventDate time.Time, link, imageURL string) *Event {
	return &Event{
		Title:           strings.TrimSpace(title),
		EventDate:       eventDate,
		Stage:           StageSubmission,
		CurrentSubStage: 1,
		Link:            strings.TrimSpace(link),
		ImageURL:        strings.TrimSpace(imageURL),
	}
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if err := validation.ValidateText(e.Title, validation.MaxTitleLength, "title"); err != nil {
		return err
	}
	if err := validation.ValidateOptionalURL(e.ImageURL, "image_url"); err != nil {
		return err
	}
	if e.EventDate.IsZero() {
		return common.Validation("event_date is required")
	}
	if !e.Stage.Valid() {
		return common.Validation("stage must be between 1 and 3")
	}
	if e.CurrentSubStage < 1 || e.CurrentSubStage > MaxSubStage {
		return common.Validation("current_sub_stage must be between 1 and %d", MaxSubStage)
	}
	return nil
}

// CanTransitionTo reports whether the event may move to the given stage.
// Stages only move forward; skipping ahead and re-asserting the current stage are allowed.
func (e *Event) CanTransitionTo(newStage Stage) bool {
	return newStage.Valid() && newStage >= e.Stage
}

// SetStage moves the event to stage. Entering voting resets the sub-stage to 1
// unless subStage is given; subStage is only accepted together with the voting stage.
func (e *Event) SetStage(stage Stage, subStage *int) error {
	if !stage.Valid() {
		return common.Validation("stage must be between 1 and 3")
	}
	if !e.CanTransitionTo(stage) {
		return common.Validation("cannot move event from %s back to %s", e.Stage, stage)
	}
	if subStage != nil {
		if stage != StageVoting {
			return common.Validation("sub_stage can only be set with the voting stage")
		}
		if err := validateSubStage(*subStage); err != nil {
			return err
		}
	}

	if stage == StageVoting {
		switch {
		case subStage != nil:
			e.CurrentSubStage = *subStage
		case e.Stage != StageVoting:
			e.CurrentSubStage = 1
		}
	}
	e.Stage = stage
	return nil
}

// SetSubStage selects the open voting category. Only valid while voting.
func (e *Event) SetSubStage(n int) error {
	if e.Stage != StageVoting {
		return common.Validation("sub-stage can only change while the event is in the voting stage (current stage: %s)", e.Stage)
	}
	if err := validateSubStage(n); err != nil {
		return err
	}
	e.CurrentSubStage = n
	return nil
}

// AcceptsIdeas reports whether new ideas may be attached to the event
func (e *Event) AcceptsIdeas() bool {
	return e.Stage == StageSubmission
}

// AcceptsVotes reports whether category votes may be cast
func (e *Event) AcceptsVotes() bool {
	return e.Stage == StageVoting
}

func validateSubStage(n int) error {
	if n < 1 || n > MaxSubStage {
		return common.Validation("sub_stage must be between 1 and %d", MaxSubStage)
	}
	return nil
}

// Stage represents the current stage of an event
type Stage int

const (
	StageSubmission Stage = 1
	StageVoting     Stage = 2
	StageResults    Stage = 3
)

func (s Stage) String() string {
	switch s {
	case StageSubmission:
		return "submission"
	case StageVoting:
		return "voting"
	case StageResults:
		return "results"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Valid reports whether s is one of the three known stages
func (s Stage) Valid() bool {
	return s >= StageSubmission && s <= StageResults
}

// StageFromString converts a stage name to a Stage
func StageFromString(s string) (Stage, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "submission", "1":
		return StageSubmission, true
	case "voting", "2":
		return StageVoting, true
	case "results", "3":
		return StageResults, true
	default:
		return 0, false
	}
}
