// Package tenant holds the university aggregate. Each university is an
// independently administered organization sharing the platform; its SID is
// the tenant id carried in session tokens.
package tenant

import (
	"context"
	"time"
)

type University struct {
	ID        uint   `gorm:"primaryKey"`
	SID       string `gorm:"uniqueIndex;size:24"`
	Name      string `gorm:"size:255;not null"`
	Code      string `gorm:"uniqueIndex;size:32;not null"`
	Active    bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (University) TableName() string {
	return "universities"
}

type Repository interface {
	GetBySID(ctx context.Context, sid string) (*University, error)
	List(ctx context.Context, offset, limit int) ([]*University, int64, error)
	Create(ctx context.Context, university *University) error
	Update(ctx context.Context, university *University) error
}
