package vote

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"gorm.io/datatypes"
)

// Tally is the number of votes an idea received in one aggregation.
type Tally struct {
	IdeaID uint `json:"idea_id"`
	Votes  int  `json:"votes"`
}

// Result is the persisted winner of one category in one event.
type Result struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	EventID       uint           `json:"event_id" gorm:"not null;uniqueIndex:idx_results_event_category,priority:1"`
	Category      Category       `json:"category" gorm:"type:vote_category;not null;uniqueIndex:idx_results_event_category,priority:2"`
	WinningIdeaID uint           `json:"winning_idea_id" gorm:"not null"`
	Votes         int            `json:"votes" gorm:"not null"`
	Breakdown     datatypes.JSON `json:"breakdown,omitempty"`
	CalculatedAt  time.Time      `json:"calculated_at" gorm:"not null"`
}

// TableName overrides the table name
func (Result) TableName() string {
	return "results"
}

// CountVotes groups votes by idea. The output is ordered by idea id.
func CountVotes(votes []CategoryVote) []Tally {
	counts := make(map[uint]int)
	for _, v := range votes {
		counts[v.IdeaID]++
	}

	tallies := make([]Tally, 0, len(counts))
	for ideaID, n := range counts {
		tallies = append(tallies, Tally{IdeaID: ideaID, Votes: n})
	}
	slices.SortFunc(tallies, func(a, b Tally) int {
		return compareUint(a.IdeaID, b.IdeaID)
	})
	return tallies
}

// SelectWinner returns the tally with the most votes. Ties go to the lowest idea id.
// It reports false when no idea received a vote.
func SelectWinner(tallies []Tally) (Tally, bool) {
	var best Tally
	found := false
	for _, t := range tallies {
		if t.Votes <= 0 {
			continue
		}
		if !found || t.Votes > best.Votes || (t.Votes == best.Votes && t.IdeaID < best.IdeaID) {
			best = t
			found = true
		}
	}
	return best, found
}

// Rank orders tallies by votes descending, then idea id ascending.
func Rank(tallies []Tally) []Tally {
	ranked := slices.Clone(tallies)
	slices.SortFunc(ranked, func(a, b Tally) int {
		if a.Votes != b.Votes {
			return b.Votes - a.Votes
		}
		return compareUint(a.IdeaID, b.IdeaID)
	})
	return ranked
}

// NewResult builds the result row for a category from its tallies.
// It reports false when the category has no votes and no row should exist.
func NewResult(eventID uint, category Category, tallies []Tally, calculatedAt time.Time) (*Result, bool, error) {
	winner, ok := SelectWinner(tallies)
	if !ok {
		return nil, false, nil
	}

	breakdown, err := json.Marshal(Rank(tallies))
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode tally breakdown: %w", err)
	}

	return &Result{
		EventID:       eventID,
		Category:      category,
		WinningIdeaID: winner.IdeaID,
		Votes:         winner.Votes,
		Breakdown:     datatypes.JSON(breakdown),
		CalculatedAt:  calculatedAt,
	}, true, nil
}

// AverageScore returns the mean of ratings, or false when there are none.
func AverageScore(ratings []int) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings)), true
}

func compareUint(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
