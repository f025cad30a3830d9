package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campus/internal/domain/tenant"
	"campus/internal/shared/db"
)

type UniversityRepositoryImpl struct {
	router *db.Router
}

func NewUniversityRepository(router *db.Router) tenant.Repository {
	return &UniversityRepositoryImpl{router: router}
}

func (r *UniversityRepositoryImpl) GetBySID(ctx context.Context, sid string) (*tenant.University, error) {
	var u tenant.University
	if err := r.router.DB(ctx).Where("sid = ?", sid).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get university: %w", err)
	}
	return &u, nil
}

func (r *UniversityRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*tenant.University, int64, error) {
	query := r.router.DB(ctx).Model(&tenant.University{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count universities: %w", err)
	}

	var universities []*tenant.University
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&universities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list universities: %w", err)
	}

	return universities, total, nil
}

func (r *UniversityRepositoryImpl) Create(ctx context.Context, u *tenant.University) error {
	if err := r.router.DB(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create university: %w", err)
	}
	return nil
}

func (r *UniversityRepositoryImpl) Update(ctx context.Context, u *tenant.University) error {
	result := r.router.DB(ctx).Save(u)
	if result.Error != nil {
		return fmt.Errorf("failed to update university: %w", result.Error)
	}
	return nil
}
