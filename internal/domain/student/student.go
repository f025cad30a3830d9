// Package student holds the tenant-scoped student record, the representative
// business entity flowing through the admission pipeline.
package student

import (
	"context"
	"time"

	"campus/internal/shared/query"
)

type Student struct {
	ID            uint   `gorm:"primaryKey"`
	SID           string `gorm:"uniqueIndex;size:24"`
	UniversitySID string `gorm:"index;size:24;not null"`
	FirstName     string `gorm:"size:128;not null"`
	LastName      string `gorm:"size:128;not null"`
	Email         string `gorm:"size:255"`
	EnrollmentYear int   `gorm:"not null"`
	Status        string `gorm:"size:32;default:enrolled"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Student) TableName() string {
	return "students"
}

type ListFilter struct {
	query.PageFilter
	Status string
}

type Repository interface {
	GetBySID(ctx context.Context, universitySID, sid string) (*Student, error)
	List(ctx context.Context, universitySID string, filter ListFilter) ([]*Student, int64, error)
	CountByUniversity(ctx context.Context, universitySID string) (int64, error)
	CountByStatus(ctx context.Context, universitySID string) (map[string]int64, error)
	Create(ctx context.Context, student *Student) error
	Update(ctx context.Context, student *Student) error
	Delete(ctx context.Context, universitySID, sid string) error
}
