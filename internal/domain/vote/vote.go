package vote

import (
	"slices"
	"strings"
	"time"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/validation"
)

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 10
)

// Category is a judged award. The three voting categories map to voting sub-stages 1..3;
// CategoryHackathonWinner is derived from all category votes of an event.
type Category string

const (
	CategoryMostCreative    Category = "Most Creative"
	CategoryMostTechnical   Category = "Most Technical"
	CategoryMostImpactful   Category = "Most Impactful"
	CategoryHackathonWinner Category = "Hackathon Winner"
)

var votingCategories = []Category{
	CategoryMostCreative,
	CategoryMostTechnical,
	CategoryMostImpactful,
}

// VotingCategories returns the categories users cast votes in, in sub-stage order.
func VotingCategories() []Category {
	return slices.Clone(votingCategories)
}

// ParseCategory accepts only the closed set of voting categories.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.IsVotingCategory() {
		return "", common.Validation("invalid category %q: must be one of %s, %s, %s",
			s, CategoryMostCreative, CategoryMostTechnical, CategoryMostImpactful)
	}
	return c, nil
}

// CategoryForSubStage maps a voting sub-stage (1-based) to its category.
func CategoryForSubStage(n int) (Category, bool) {
	if n < 1 || n > len(votingCategories) {
		return "", false
	}
	return votingCategories[n-1], true
}

// SubStage returns the 1-based voting sub-stage of c, or 0 for non-voting categories.
func (c Category) SubStage() int {
	return slices.Index(votingCategories, c) + 1
}

func (c Category) IsVotingCategory() bool {
	return slices.Contains(votingCategories, c)
}

func (c Category) String() string {
	return string(c)
}

// CategoryVote is one user's pick for a category within an event.
type CategoryVote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserEmail string    `json:"user_email" gorm:"not null;uniqueIndex:idx_category_votes_user_event_category,priority:1"`
	EventID   uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_category_votes_user_event_category,priority:2"`
	Category  Category  `json:"category" gorm:"type:vote_category;not null;uniqueIndex:idx_category_votes_user_event_category,priority:3"`
	IdeaID    uint      `json:"idea_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (CategoryVote) TableName() string {
	return "category_votes"
}

// NewCategoryVote builds a vote after validating its fields
func NewCategoryVote(userEmail string, eventID uint, category Category, ideaID uint) (*CategoryVote, error) {
	v := &CategoryVote{
		UserEmail: common.NormalizeEmail(userEmail),
		EventID:   eventID,
		Category:  category,
		IdeaID:    ideaID,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *CategoryVote) Validate() error {
	if v.UserEmail == "" {
		return common.Validation("user email is required")
	}
	if v.EventID == 0 || v.IdeaID == 0 {
		return common.Validation("event_id and idea_id are required")
	}
	if !v.Category.IsVotingCategory() {
		return common.Validation("invalid category %q", v.Category)
	}
	return nil
}

// Rating is a 1-10 score a user gives an idea.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserEmail string    `json:"user_email" gorm:"not null;uniqueIndex:idx_ratings_user_idea,priority:1"`
	IdeaID    uint      `json:"idea_id" gorm:"not null;uniqueIndex:idx_ratings_user_idea,priority:2"`
	Rating    int       `json:"rating" gorm:"not null;check:chk_ratings_range,rating >= 1 AND rating <= 10"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (Rating) TableName() string {
	return "ratings"
}

// ValidateRating rejects scores outside [MinRating, MaxRating].
func ValidateRating(r int) error {
	return validation.ValidateRange(r, MinRating, MaxRating, "Rating")
}

// NewRating builds a rating after validating its range
func NewRating(userEmail string, ideaID uint, rating int) (*Rating, error) {
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	email := common.NormalizeEmail(userEmail)
	if email == "" {
		return nil, common.Validation("user email is required")
	}
	return &Rating{UserEmail: email, IdeaID: ideaID, Rating: rating}, nil
}

// Like records that a user liked an idea. At most one per (user, idea).
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserEmail string    `json:"user_email" gorm:"not null;uniqueIndex:idx_likes_user_idea,priority:1"`
	IdeaID    uint      `json:"idea_id" gorm:"not null;uniqueIndex:idx_likes_user_idea,priority:2"`
	LikedAt   time.Time `json:"liked_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (Like) TableName() string {
	return "likes"
}
