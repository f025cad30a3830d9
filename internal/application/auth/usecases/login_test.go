package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus/internal/domain/tenant"
	"campus/internal/domain/user"
	"campus/internal/infrastructure/auth"
	apperrors "campus/internal/shared/errors"
	"campus/internal/shared/logger"
)

// =====================================================================
// Fakes
// =====================================================================

type fakeUserRepo struct {
	users   map[string]*user.User // keyed by username
	bySID   map[string]*user.User
	updated *user.User
	err     error
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		users: map[string]*user.User{},
		bySID: map[string]*user.User{},
	}
	for _, u := range users {
		repo.users[u.Username] = u
		repo.bySID[u.SID] = u
	}
	return repo
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ uint) (*user.User, error) { return nil, nil }

func (r *fakeUserRepo) GetBySID(_ context.Context, sid string) (*user.User, error) {
	return r.bySID[sid], r.err
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*user.User, error) {
	return r.users[username], r.err
}

func (r *fakeUserRepo) Create(_ context.Context, _ *user.User) error { return nil }

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.updated = u
	return nil
}

type fakeUniversityRepo struct {
	universities map[string]*tenant.University
}

func newFakeUniversityRepo(universities ...*tenant.University) *fakeUniversityRepo {
	repo := &fakeUniversityRepo{universities: map[string]*tenant.University{}}
	for _, u := range universities {
		repo.universities[u.SID] = u
	}
	return repo
}

func (r *fakeUniversityRepo) GetBySID(_ context.Context, sid string) (*tenant.University, error) {
	return r.universities[sid], nil
}

func (r *fakeUniversityRepo) List(_ context.Context, _, _ int) ([]*tenant.University, int64, error) {
	return nil, 0, nil
}

func (r *fakeUniversityRepo) Create(_ context.Context, _ *tenant.University) error { return nil }
func (r *fakeUniversityRepo) Update(_ context.Context, _ *tenant.University) error { return nil }

// =====================================================================
// Fixtures
// =====================================================================

const (
	testPassword = "s3cret-enough"
	testSecret   = "usecase-test-secret"
)

func testFixtures(t *testing.T) (*fakeUserRepo, *fakeUniversityRepo, *auth.JWTService) {
	t.Helper()

	hasher := auth.NewBcryptPasswordHasher(4)
	hash, err := hasher.Hash(testPassword)
	require.NoError(t, err)

	staff := &user.User{
		SID:           "usr_staff1",
		Username:      "jdoe",
		PasswordHash:  hash,
		Role:          "staff",
		UniversitySID: "uni_abc",
		Active:        true,
	}
	admin := &user.User{
		SID:          "usr_admin1",
		Username:     "root",
		PasswordHash: hash,
		Role:         "admin",
		Active:       true,
	}
	suspended := &user.User{
		SID:           "usr_gone",
		Username:      "ghost",
		PasswordHash:  hash,
		Role:          "staff",
		UniversitySID: "uni_abc",
		Active:        false,
	}

	userRepo := newFakeUserRepo(staff, admin, suspended)
	universityRepo := newFakeUniversityRepo(
		&tenant.University{SID: "uni_abc", Name: "Alpha", Code: "ALPHA", Active: true},
		&tenant.University{SID: "uni_closed", Name: "Closed", Code: "CLOSED", Active: false},
	)

	return userRepo, universityRepo, auth.NewJWTService(testSecret, 30, 60)
}

func newLoginUseCase(userRepo *fakeUserRepo, universityRepo *fakeUniversityRepo, jwtSvc *auth.JWTService) *LoginUseCase {
	return NewLoginUseCase(userRepo, universityRepo, auth.NewBcryptPasswordHasher(4), jwtSvc, logger.NewLogger())
}

// =====================================================================
// Login
// =====================================================================

func TestLoginUseCase_Success(t *testing.T) {
	userRepo, universityRepo, jwtSvc := testFixtures(t)
	uc := newLoginUseCase(userRepo, universityRepo, jwtSvc)

	result, err := uc.Execute(context.Background(), LoginCommand{
		Username: "jdoe",
		Password: testPassword,
	})
	require.NoError(t, err)

	claims, err := jwtSvc.VerifyKind(result.AccessToken, auth.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "usr_staff1", claims.UserID())
	assert.Equal(t, "uni_abc", claims.TenantID)
	assert.Equal(t, "staff", claims.Role)

	// Login records the timestamp.
	require.NotNil(t, userRepo.updated)
	assert.NotNil(t, userRepo.updated.LastLoginAt)
}

func TestLoginUseCase_UnknownUser(t *testing.T) {
	userRepo, universityRepo, jwtSvc := testFixtures(t)
	uc := newLoginUseCase(userRepo, universityRepo, jwtSvc)

	_, err := uc.Execute(context.Background(), LoginCommand{
		Username: "nobody",
		Password: testPassword,
	})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeInvalidCredentials, appErr.Type)
}

func TestLoginUseCase_WrongPassword(t *testing.T) {
	userRepo, universityRepo, jwtSvc := testFixtures(t)
	uc := newLoginUseCase(userRepo, universityRepo, jwtSvc)

	_, err := uc.Execute(context.Background(), LoginCommand{
		Username: "jdoe",
		Password: "wrong",
	})
	require.Error(t, err)

	wrongPassErr := apperrors.GetAppError(err)
	require.NotNil(t, wrongPassErr)

	// Same generic error as an unknown user, so responses do not reveal
	// which part of the credentials failed.
	_, err = uc.Execute(context.Background(), LoginCommand{
		Username: "nobody",
		Password: testPassword,
	})
	unknownUserErr := apperrors.GetAppError(err)
	require.NotNil(t, unknownUserErr)
	assert.Equal(t, unknownUserErr.Type, wrongPassErr.Type)
	assert.Equal(t, unknownUserErr.Message, wrongPassErr.Message)
}

func TestLoginUseCase_InactiveAccount(t *testing.T) {
	userRepo, universityRepo, jwtSvc := testFixtures(t)
	uc := newLoginUseCase(userRepo, universityRepo, jwtSvc)

	_, err := uc.Execute(context.Background(), LoginCommand{
		Username: "ghost",
		Password: testPassword,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsAppError(err))
}

func TestLoginUseCase_InactiveUniversity(t *testing.T) {
	userRepo, universityRepo, jwtSvc := testFixtures(t)

	hash := userRepo.users["jdoe"].PasswordHash
	userRepo.users["limbo"] = &user.User{
		SID:           "usr_limbo",
		Username:      "limbo",
		PasswordHash:  hash,
		Role:          "staff",
		UniversitySID: "uni_closed",
		Active:        true,
	}

	uc := newLoginUseCase(userRepo, universityRepo, jwtSvc)
	_, err := uc.Execute(context.Background(), LoginCommand{
		Username: "limbo",
		Password: testPassword,
	})
	require.Error(t, err)
}

func TestLoginUseCase_AdminSkipsUniversityCheck(t *testing.T) {
	userRepo, universityRepo, jwtSvc := testFixtures(t)
	uc := newLoginUseCase(userRepo, universityRepo, jwtSvc)

	result, err := uc.Execute(context.Background(), LoginCommand{
		Username: "root",
		Password: testPassword,
	})
	require.NoError(t, err)

	claims, err := jwtSvc.VerifyKind(result.AccessToken, auth.TokenKindAccess)
	require.NoError(t, err)
	assert.Empty(t, claims.TenantID)
	assert.Equal(t, "admin", claims.Role)
}

// =====================================================================
// Refresh
// =====================================================================

func TestRefreshTokenUseCase_RoundTrip(t *testing.T) {
	userRepo, universityRepo, jwtSvc := testFixtures(t)
	loginUC := newLoginUseCase(userRepo, universityRepo, jwtSvc)
	refreshUC := NewRefreshTokenUseCase(userRepo, jwtSvc, jwtSvc, logger.NewLogger())

	loginResult, err := loginUC.Execute(context.Background(), LoginCommand{
		Username: "jdoe",
		Password: testPassword,
	})
	require.NoError(t, err)

	refreshResult, err := refreshUC.Execute(context.Background(), RefreshTokenCommand{
		RefreshToken: loginResult.RefreshToken,
	})
	require.NoError(t, err)

	// The new access token names the same subject and the same tenant.
	claims, err := jwtSvc.VerifyKind(refreshResult.AccessToken, auth.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "usr_staff1", claims.UserID())
	assert.Equal(t, "uni_abc", claims.TenantID)
}

func TestRefreshTokenUseCase_SurvivesAccessExpiry(t *testing.T) {
	userRepo, universityRepo, _ := testFixtures(t)

	// Access tokens are born expired; refresh tokens stay valid.
	jwtSvc := auth.NewJWTService(testSecret, -1, 60)
	loginUC := newLoginUseCase(userRepo, universityRepo, jwtSvc)
	refreshUC := NewRefreshTokenUseCase(userRepo, jwtSvc, jwtSvc, logger.NewLogger())

	loginResult, err := loginUC.Execute(context.Background(), LoginCommand{
		Username: "jdoe",
		Password: testPassword,
	})
	require.NoError(t, err)

	_, err = jwtSvc.VerifyKind(loginResult.AccessToken, auth.TokenKindAccess)
	require.ErrorIs(t, err, auth.ErrTokenExpired)

	refreshResult, err := refreshUC.Execute(context.Background(), RefreshTokenCommand{
		RefreshToken: loginResult.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshResult.AccessToken)
}

func TestRefreshTokenUseCase_AccessTokenRejected(t *testing.T) {
	userRepo, universityRepo, jwtSvc := testFixtures(t)
	loginUC := newLoginUseCase(userRepo, universityRepo, jwtSvc)
	refreshUC := NewRefreshTokenUseCase(userRepo, jwtSvc, jwtSvc, logger.NewLogger())

	loginResult, err := loginUC.Execute(context.Background(), LoginCommand{
		Username: "jdoe",
		Password: testPassword,
	})
	require.NoError(t, err)

	_, err = refreshUC.Execute(context.Background(), RefreshTokenCommand{
		RefreshToken: loginResult.AccessToken,
	})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeWrongTokenKind, appErr.Type)
}

func TestRefreshTokenUseCase_GarbageRejected(t *testing.T) {
	userRepo, _, jwtSvc := testFixtures(t)
	refreshUC := NewRefreshTokenUseCase(userRepo, jwtSvc, jwtSvc, logger.NewLogger())

	_, err := refreshUC.Execute(context.Background(), RefreshTokenCommand{
		RefreshToken: "garbage",
	})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeTokenInvalid, appErr.Type)
}

func TestRefreshTokenUseCase_DeactivatedUserRejected(t *testing.T) {
	userRepo, universityRepo, jwtSvc := testFixtures(t)
	loginUC := newLoginUseCase(userRepo, universityRepo, jwtSvc)
	refreshUC := NewRefreshTokenUseCase(userRepo, jwtSvc, jwtSvc, logger.NewLogger())

	loginResult, err := loginUC.Execute(context.Background(), LoginCommand{
		Username: "jdoe",
		Password: testPassword,
	})
	require.NoError(t, err)

	// Deactivation between login and refresh cuts the session chain even
	// though the refresh token itself is still cryptographically valid.
	userRepo.bySID["usr_staff1"].Active = false

	_, err = refreshUC.Execute(context.Background(), RefreshTokenCommand{
		RefreshToken: loginResult.RefreshToken,
	})
	require.Error(t, err)
}

func TestRefreshTokenUseCase_ReResolvesTenant(t *testing.T) {
	userRepo, universityRepo, jwtSvc := testFixtures(t)
	loginUC := newLoginUseCase(userRepo, universityRepo, jwtSvc)
	refreshUC := NewRefreshTokenUseCase(userRepo, jwtSvc, jwtSvc, logger.NewLogger())

	loginResult, err := loginUC.Execute(context.Background(), LoginCommand{
		Username: "jdoe",
		Password: testPassword,
	})
	require.NoError(t, err)

	// Reassign the user; the refreshed access token reflects the new
	// assignment because refresh reads the store, not the old claims.
	userRepo.bySID["usr_staff1"].UniversitySID = "uni_moved"

	refreshResult, err := refreshUC.Execute(context.Background(), RefreshTokenCommand{
		RefreshToken: loginResult.RefreshToken,
	})
	require.NoError(t, err)

	claims, err := jwtSvc.VerifyKind(refreshResult.AccessToken, auth.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "uni_moved", claims.TenantID)
}
