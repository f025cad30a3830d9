package usecases

import (
	"context"
	"fmt"

	"campus/internal/domain/tenant"
	"campus/internal/domain/user"
	"campus/internal/infrastructure/auth"
	"campus/internal/shared/biztime"
	"campus/internal/shared/errors"
	"campus/internal/shared/logger"
)

// TokenIssuer is the slice of the token service the login flow needs.
type TokenIssuer interface {
	IssuePair(userID, username, tenantID, role string) (*auth.TokenPair, error)
}

type LoginCommand struct {
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

type LoginResult struct {
	User         *user.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type LoginUseCase struct {
	userRepo       user.Repository
	universityRepo tenant.Repository
	hasher         auth.PasswordHasher
	tokens         TokenIssuer
	logger         logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	universityRepo tenant.Repository,
	hasher auth.PasswordHasher,
	tokens TokenIssuer,
	log logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo:       userRepo,
		universityRepo: universityRepo,
		hasher:         hasher,
		tokens:         tokens,
		logger:         log,
	}
}

// Execute authenticates the user and issues a token pair. The university
// assignment is resolved here, once, and embedded in the access token: it
// stays fixed for the token's entire lifetime.
func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	existing, err := uc.userRepo.GetByUsername(ctx, cmd.Username)
	if err != nil {
		uc.logger.Errorw("failed to get user by username", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Generic error when the user does not exist: the response must not
	// reveal whether the username or the password was wrong.
	if existing == nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	if !existing.CanLogin() {
		return nil, errors.NewForbiddenError("account is not active")
	}

	if err := uc.hasher.Verify(cmd.Password, existing.PasswordHash); err != nil {
		uc.logger.Warnw("failed login attempt",
			"username", cmd.Username,
			"ip", cmd.IPAddress)
		return nil, errors.NewInvalidCredentialsError()
	}

	// Authoritative user→tenant lookup. Cross-tenant operators have no
	// assignment; everyone else must belong to an active university.
	if !existing.IsCrossTenant() {
		if err := uc.checkUniversity(ctx, existing.UniversitySID); err != nil {
			return nil, err
		}
	}

	pair, err := uc.tokens.IssuePair(existing.SID, existing.Username, existing.UniversitySID, existing.Role)
	if err != nil {
		uc.logger.Errorw("failed to issue token pair", "error", err, "user_sid", existing.SID)
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	// Best effort: a failed timestamp update must not fail the login.
	now := biztime.NowUTC()
	existing.LastLoginAt = &now
	if err := uc.userRepo.Update(ctx, existing); err != nil {
		uc.logger.Warnw("failed to record last login", "error", err, "user_sid", existing.SID)
	}

	uc.logger.Infow("user logged in",
		"user_sid", existing.SID,
		"tenant_id", existing.UniversitySID,
		"role", existing.Role)

	return &LoginResult{
		User:         existing,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (uc *LoginUseCase) checkUniversity(ctx context.Context, universitySID string) error {
	if universitySID == "" {
		return errors.NewForbiddenError("account has no university assignment")
	}

	university, err := uc.universityRepo.GetBySID(ctx, universitySID)
	if err != nil {
		return fmt.Errorf("failed to resolve university: %w", err)
	}
	if university == nil || !university.Active {
		return errors.NewForbiddenError("university is not active")
	}
	return nil
}
