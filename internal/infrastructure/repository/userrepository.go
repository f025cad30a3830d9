package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campus/internal/domain/user"
	"campus/internal/shared/db"
)

type UserRepositoryImpl struct {
	router *db.Router
}

// NewUserRepository builds a user repository. Every query acquires its
// handle through the router, so a read-only unit of work lands on the
// replica.
func NewUserRepository(router *db.Router) user.Repository {
	return &UserRepositoryImpl{router: router}
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var u user.User
	if err := r.router.DB(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &u, nil
}

func (r *UserRepositoryImpl) GetBySID(ctx context.Context, sid string) (*user.User, error) {
	var u user.User
	if err := r.router.DB(ctx).Where("sid = ?", sid).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by sid: %w", err)
	}
	return &u, nil
}

func (r *UserRepositoryImpl) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	if err := r.router.DB(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &u, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	if err := r.router.DB(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, u *user.User) error {
	result := r.router.DB(ctx).Save(u)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	return nil
}
