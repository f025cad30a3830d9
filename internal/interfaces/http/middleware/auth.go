package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campus/internal/infrastructure/auth"
	"campus/internal/shared/constants"
	"campus/internal/shared/logger"
	"campus/internal/shared/tenancy"
	"campus/internal/shared/utils"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, log logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     log,
	}
}

// RequireAuth verifies the bearer token and rejects anything that is not a
// valid, unexpired access token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := m.jwtService.VerifyKind(token, auth.TokenKindAccess)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrWrongTokenKind):
				utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token type")
			case errors.Is(err, auth.ErrTokenExpired):
				utils.ErrorResponse(c, http.StatusUnauthorized, "token has expired")
			default:
				m.logger.Warnw("failed to verify token", "error", err, "client_ip", c.ClientIP())
				utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID())
		c.Set(constants.ContextKeyUsername, claims.Username)
		c.Set(constants.ContextKeyTenantID, claims.TenantID)
		c.Set(constants.ContextKeyUserRole, claims.Role)
		c.Set(constants.ContextKeyClaims, claims)

		c.Next()
	}
}

// RequireTenantAccess authorizes the verified identity against the tenant
// named in the route. It must run after RequireAuth.
func (m *AuthMiddleware) RequireTenantAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		requestedTenantID := c.Param(param)
		if !tenancy.CanAccess(claims, requestedTenantID) {
			m.logger.Warnw("tenant access denied",
				"user_id", claims.UserID(),
				"token_tenant", claims.TenantID,
				"requested_tenant", requestedTenantID)
			utils.ErrorResponse(c, http.StatusForbidden, "access to this university is not allowed")
			c.Abort()
			return
		}

		c.Next()
	}
}

// ClaimsFromContext returns the verified claims set by RequireAuth, or nil.
func ClaimsFromContext(c *gin.Context) *auth.Claims {
	value, exists := c.Get(constants.ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
