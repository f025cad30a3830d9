package usecases

import (
	"context"
	"errors"
	"fmt"

	"campus/internal/domain/user"
	"campus/internal/infrastructure/auth"
	apperrors "campus/internal/shared/errors"
	"campus/internal/shared/logger"
)

// TokenVerifier is the slice of the token service the refresh flow needs.
type TokenVerifier interface {
	VerifyKind(token string, kind auth.TokenKind) (*auth.Claims, error)
}

type RefreshTokenCommand struct {
	RefreshToken string
}

type RefreshTokenResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type RefreshTokenUseCase struct {
	userRepo user.Repository
	verifier TokenVerifier
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewRefreshTokenUseCase(
	userRepo user.Repository,
	verifier TokenVerifier,
	tokens TokenIssuer,
	log logger.Interface,
) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		userRepo: userRepo,
		verifier: verifier,
		tokens:   tokens,
		logger:   log,
	}
}

// Execute exchanges a valid refresh token for a new pair. The refresh token
// carries only the subject, so the tenant assignment and role are re-resolved
// from the authoritative store; a user whose assignment changed gets a token
// reflecting the current state, not the state at original login.
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, cmd RefreshTokenCommand) (*RefreshTokenResult, error) {
	claims, err := uc.verifier.VerifyKind(cmd.RefreshToken, auth.TokenKindRefresh)
	if err != nil {
		if errors.Is(err, auth.ErrWrongTokenKind) {
			return nil, apperrors.NewWrongTokenKindError(string(auth.TokenKindRefresh))
		}
		return nil, apperrors.NewTokenInvalidError()
	}

	existing, err := uc.userRepo.GetBySID(ctx, claims.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing == nil || !existing.CanLogin() {
		return nil, apperrors.NewForbiddenError("account is not active")
	}

	pair, err := uc.tokens.IssuePair(existing.SID, existing.Username, existing.UniversitySID, existing.Role)
	if err != nil {
		uc.logger.Errorw("failed to issue token pair on refresh", "error", err, "user_sid", existing.SID)
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	uc.logger.Infow("token refreshed", "user_sid", existing.SID)

	return &RefreshTokenResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
