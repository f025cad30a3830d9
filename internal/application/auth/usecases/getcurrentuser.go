package usecases

import (
	"context"
	"fmt"

	"campus/internal/domain/user"
	apperrors "campus/internal/shared/errors"
)

type GetCurrentUserUseCase struct {
	userRepo user.Repository
}

func NewGetCurrentUserUseCase(userRepo user.Repository) *GetCurrentUserUseCase {
	return &GetCurrentUserUseCase{userRepo: userRepo}
}

func (uc *GetCurrentUserUseCase) Execute(ctx context.Context, userSID string) (*user.User, error) {
	existing, err := uc.userRepo.GetBySID(ctx, userSID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return existing, nil
}
