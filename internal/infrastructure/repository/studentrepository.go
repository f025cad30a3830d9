package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campus/internal/domain/student"
	"campus/internal/shared/db"
	apperrors "campus/internal/shared/errors"
)

type StudentRepositoryImpl struct {
	router *db.Router
}

func NewStudentRepository(router *db.Router) student.Repository {
	return &StudentRepositoryImpl{router: router}
}

func (r *StudentRepositoryImpl) GetBySID(ctx context.Context, universitySID, sid string) (*student.Student, error) {
	var s student.Student
	err := r.router.DB(ctx).
		Where("university_sid = ? AND sid = ?", universitySID, sid).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &s, nil
}

func (r *StudentRepositoryImpl) List(ctx context.Context, universitySID string, filter student.ListFilter) ([]*student.Student, int64, error) {
	query := r.router.DB(ctx).Model(&student.Student{}).
		Where("university_sid = ?", universitySID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	var students []*student.Student
	err := query.
		Order("id DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&students).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}

	return students, total, nil
}

func (r *StudentRepositoryImpl) CountByUniversity(ctx context.Context, universitySID string) (int64, error) {
	var count int64
	err := r.router.DB(ctx).Model(&student.Student{}).
		Where("university_sid = ?", universitySID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

func (r *StudentRepositoryImpl) CountByStatus(ctx context.Context, universitySID string) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.router.DB(ctx).Model(&student.Student{}).
		Select("status, COUNT(*) as count").
		Where("university_sid = ?", universitySID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count students by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *StudentRepositoryImpl) Create(ctx context.Context, s *student.Student) error {
	if err := r.router.DB(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (r *StudentRepositoryImpl) Update(ctx context.Context, s *student.Student) error {
	result := r.router.DB(ctx).Save(s)
	if result.Error != nil {
		return fmt.Errorf("failed to update student: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("student not found")
	}
	return nil
}

func (r *StudentRepositoryImpl) Delete(ctx context.Context, universitySID, sid string) error {
	result := r.router.DB(ctx).
		Where("university_sid = ? AND sid = ?", universitySID, sid).
		Delete(&student.Student{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete student: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("student not found")
	}
	return nil
}
