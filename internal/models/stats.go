package models

import (
	"time"
)

// UserStat is the derived per-user article summary. It is computed on demand
// and never persisted. FirstArticleDate is nil for users with no articles.
type UserStat struct {
	ID               uint       `json:"id"`
	Username         string     `json:"username"`
	TotalArticles    int        `json:"totalArticles"`
	TotalLikes       int        `json:"totalLikes"`
	FirstArticleDate *time.Time `json:"firstArticleDate"`
}
