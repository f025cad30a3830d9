package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"campus/internal/shared/biztime"
)

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Sentinel errors returned by Verify and VerifyKind. Callers branch on these
// rather than inspecting library errors.
var (
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired wraps ErrInvalidToken: an expired token is an invalid
	// token, callers that care about the distinction can still branch on it.
	ErrTokenExpired   = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrWrongTokenKind = errors.New("wrong token kind")
)

// Claims is the payload of every session token. Claims are fixed at issuance;
// in particular TenantID is looked up once at login and never changes for the
// token's lifetime.
type Claims struct {
	Username  string    `json:"username,omitempty"`
	TenantID  string    `json:"tenant_id,omitempty"`
	Role      string    `json:"role,omitempty"`
	TokenKind TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// JWTService issues and verifies stateless session tokens. There is no
// server-side session store: validity is determined purely by signature and
// expiry. Logout therefore cannot invalidate a still-valid token before it
// expires; it is a client-side discard (known limitation of the stateless
// design, see DESIGN.md).
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTService(secret string, accessExpDays, refreshExpDays int) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessExpDays) * 24 * time.Hour,
		refreshTTL: time.Duration(refreshExpDays) * 24 * time.Hour,
	}
}

// IssueAccessToken produces a signed access token bound to the given tenant.
// The tenant and role are resolved once, at login, and stay fixed for the
// token's lifetime.
func (s *JWTService) IssueAccessToken(userID, username, tenantID, role string) (string, error) {
	return s.sign(&Claims{
		Username:         username,
		TenantID:         tenantID,
		Role:             role,
		TokenKind:        TokenKindAccess,
		RegisteredClaims: s.registered(userID, s.accessTTL),
	})
}

// IssueRefreshToken produces a signed refresh token. It carries only the
// subject: the tenant assignment is re-resolved when the token is exchanged.
func (s *JWTService) IssueRefreshToken(userID string) (string, error) {
	return s.sign(&Claims{
		TokenKind:        TokenKindRefresh,
		RegisteredClaims: s.registered(userID, s.refreshTTL),
	})
}

// IssuePair issues an access and refresh token for the same subject.
func (s *JWTService) IssuePair(userID, username, tenantID, role string) (*TokenPair, error) {
	accessToken, err := s.IssueAccessToken(userID, username, tenantID, role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.IssueRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Verify parses and validates a token. It fails with ErrTokenExpired for a
// well-formed token past its expiry, and ErrInvalidToken for anything whose
// signature does not match its claimed content.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifyKind verifies the token and additionally checks its kind, so a
// refresh token cannot be used as an access token and vice versa.
func (s *JWTService) VerifyKind(tokenString string, expected TokenKind) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenKind != expected {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrWrongTokenKind, expected, claims.TokenKind)
	}
	return claims, nil
}

// AccessTTLSeconds returns the access token lifetime in seconds.
func (s *JWTService) AccessTTLSeconds() int64 {
	return int64(s.accessTTL.Seconds())
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", claims.TokenKind, err)
	}
	return signed, nil
}

func (s *JWTService) registered(userID string, ttl time.Duration) jwt.RegisteredClaims {
	now := biztime.NowUTC()
	return jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
}
