package idea

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Membership is the ordered set of event ids an idea belongs to.
type Membership []uint

// ParseMembership reads the comma separated event list older databases kept on
// the idea row ("1,5"). Tokens are trimmed; empty, zero or non-numeric tokens are dropped.
func ParseMembership(raw string) Membership {
	var m Membership
	for _, token := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(token), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		m = m.Add(uint(id))
	}
	return m
}

func (m Membership) Contains(eventID uint) bool {
	return slices.Contains(m, eventID)
}

// Add appends eventID if absent. Adding an existing member is a no-op.
func (m Membership) Add(eventID uint) Membership {
	if eventID == 0 || m.Contains(eventID) {
		return m
	}
	return append(slices.Clone(m), eventID)
}

// Remove returns the membership without eventID.
func (m Membership) Remove(eventID uint) Membership {
	out := make(Membership, 0, len(m))
	for _, id := range m {
		if id != eventID {
			out = append(out, id)
		}
	}
	return out
}

// First returns the earliest event in the membership.
func (m Membership) First() (uint, bool) {
	if len(m) == 0 {
		return 0, false
	}
	return m[0], true
}

func (m Membership) String() string {
	parts := make([]string, len(m))
	for i, id := range m {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// IdeaEvent is one membership row linking an idea to an event.
type IdeaEvent struct {
	IdeaID  uint      `json:"idea_id" gorm:"primaryKey;autoIncrement:false"`
	EventID uint      `json:"event_id" gorm:"primaryKey;autoIncrement:false;index"`
	AddedAt time.Time `json:"added_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (IdeaEvent) TableName() string {
	return "idea_events"
}
