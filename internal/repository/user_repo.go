package repository

import (
	"context"

	"github.com/AzizSouissi/store-inventory-suite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository covers operator accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.AppUser) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AppUser, error)
	FindByUsername(ctx context.Context, username string) (*model.AppUser, error)
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.AppUser) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AppUser, error) {
	var u model.AppUser
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.AppUser, error) {
	var u model.AppUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
