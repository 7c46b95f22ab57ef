package repository

import (
	"context"

	"gorm.io/gorm"

	"conduit/internal/models"
)

// UserRepository is the only place that talks to the persistence layer for
// user records. The service above it issues no queries of its own.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// CountByUsernameOrEmail backs the pre-insert uniqueness check.
func (r *UserRepository) CountByUsernameOrEmail(ctx context.Context, username, email string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByCredentials matches on the stored password digest, not on a
// recomputed comparison; login is an equality lookup.
func (r *UserRepository) FindByCredentials(ctx context.Context, email, passwordHash string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND password_hash = ?", email, passwordHash).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAllWithArticles loads every user with the articles relation populated,
// in primary-key order.
func (r *UserRepository) FindAllWithArticles(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Preload("Articles").
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// DeleteByEmail removes the matching record. Zero rows affected is not an
// error; delete is idempotent.
func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.User{}).Error
}
