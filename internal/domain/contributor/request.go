package contributor

import (
	"strings"
	"time"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Request asks an idea owner to be listed as a contributor for one event.
type Request struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	IdeaID         uint       `json:"idea_id" gorm:"not null;index"`
	EventID        uint       `json:"event_id" gorm:"not null;index"`
	RequesterEmail string     `json:"requester_email" gorm:"not null;index"`
	Message        string     `json:"message" gorm:"type:text"`
	Status         Status     `json:"status" gorm:"type:request_status;not null;default:'pending'"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	RespondedAt    *time.Time `json:"responded_at"`
}

// TableName overrides the table name
func (Request) TableName() string {
	return "contributor_requests"
}

func NewRequest(ideaID, eventID uint, requesterEmail, message string) (*Request, error) {
	r := &Request{
		IdeaID:         ideaID,
		EventID:        eventID,
		RequesterEmail: common.NormalizeEmail(requesterEmail),
		Message:        strings.TrimSpace(message),
		Status:         StatusPending,
	}
	if r.IdeaID == 0 || r.EventID == 0 || r.RequesterEmail == "" {
		return nil, common.Validation("Missing required fields")
	}
	return r, nil
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// Accept marks a pending request accepted
func (r *Request) Accept(at time.Time) error {
	return r.respond(StatusAccepted, at)
}

// Decline marks a pending request declined
func (r *Request) Decline(at time.Time) error {
	return r.respond(StatusDeclined, at)
}

func (r *Request) respond(status Status, at time.Time) error {
	if !r.IsPending() {
		return common.Validation("request has already been %s", r.Status)
	}
	r.Status = status
	r.RespondedAt = &at
	return nil
}
