package database

import (
	"conduit/internal/models"
)

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Favorite{},
	)
}
