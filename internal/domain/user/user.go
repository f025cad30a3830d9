// Package user holds the operator identity: the staff member, administrator
// or system account that authenticates against the backend.
package user

import (
	"context"
	"time"

	"campus/internal/shared/constants"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	SID          string `gorm:"uniqueIndex;size:24"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:32;not null;default:staff"`
	// UniversitySID is the tenant assignment, effectively immutable per
	// session: it is read once at login and embedded in the token. Empty for
	// cross-tenant operators.
	UniversitySID string `gorm:"index;size:24"`
	Active        bool   `gorm:"default:true"`
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (User) TableName() string {
	return "users"
}

// CanLogin reports whether the account is allowed to authenticate.
func (u *User) CanLogin() bool {
	return u.Active
}

// IsCrossTenant reports whether the user operates across universities.
func (u *User) IsCrossTenant() bool {
	return u.Role == constants.RoleAdmin || u.Role == constants.RoleSystem
}

type Repository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetBySID(ctx context.Context, sid string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}
