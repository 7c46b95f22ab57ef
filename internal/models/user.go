package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Bio          string    `json:"bio,omitempty"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Articles  []Article  `gorm:"foreignKey:AuthorID" json:"-"`
	Favorites []Favorite `gorm:"foreignKey:UserID" json:"-"`
}

// Profile is the per-user payload of the {"user": ...} response envelope.
// The token is issued fresh on every projection.
type Profile struct {
	Bio      string `json:"bio"`
	Email    string `json:"email"`
	Image    string `json:"image"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

type UserEnvelope struct {
	User Profile `json:"user"`
}

func (u *User) ToProfile(token string) Profile {
	return Profile{
		Bio:      u.Bio,
		Email:    u.Email,
		Image:    u.Image,
		Token:    token,
		Username: u.Username,
	}
}
