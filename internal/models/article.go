package models

import (
	"time"
)

type Article struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Slug           string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `json:"description"`
	Body           string    `gorm:"type:text" json:"body"`
	AuthorID       uint      `gorm:"not null" json:"author_id"`
	FavoritesCount int       `gorm:"default:0" json:"favorites_count"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Author    User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Favorites []Favorite `gorm:"foreignKey:ArticleID" json:"-"`
}
