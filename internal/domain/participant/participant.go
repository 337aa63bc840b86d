package participant

import (
	"strings"
	"time"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/validation"
)

// User is the profile of someone who signed in through the external identity provider.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	Email          string    `json:"email" gorm:"not null;uniqueIndex"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// NewUser crea un nuevo usuario
func NewUser(name, email, profilePicture string) (*User, error) {
	u := &User{
		Name:           strings.TrimSpace(name),
		Email:          common.NormalizeEmail(email),
		ProfilePicture: strings.TrimSpace(profilePicture),
	}
	if err := validation.ValidateEmail(u.Email); err != nil {
		return nil, err
	}
	if u.Name == "" {
		u.Name = u.Email
	}
	if err := validation.ValidateMaxLength(u.Name, validation.MaxNameLength, "name"); err != nil {
		return nil, err
	}
	return u, nil
}

// Admin is an allow-list entry granting administrative rights to an email.
type Admin struct {
	Email     string    `json:"email" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (Admin) TableName() string {
	return "admins"
}
