package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"campus/internal/infrastructure/ratelimit"
	"campus/internal/shared/constants"
	"campus/internal/shared/logger"
)

// Admission gates externally callable endpoints behind the tenant/global
// rate limiter. It must run after RequireAuth so it can key on the tenant
// carried in the token. Paths under an exempt prefix (health and status
// probes) bypass the gate entirely.
type Admission struct {
	limiter        ratelimit.Limiter
	enabled        bool
	exemptPrefixes []string
	logger         logger.Interface
}

func NewAdmission(limiter ratelimit.Limiter, enabled bool, exemptPrefixes []string, log logger.Interface) *Admission {
	return &Admission{
		limiter:        limiter,
		enabled:        enabled,
		exemptPrefixes: exemptPrefixes,
		logger:         log,
	}
}

func (a *Admission) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.enabled || a.exempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		// Cross-tenant operators have no tenant id; their traffic counts
		// against a shared bucket and the global limit.
		tenantID := c.GetString(constants.ContextKeyTenantID)
		if tenantID == "" {
			tenantID = "cross-tenant"
		}

		result := a.limiter.Admit(c.Request.Context(), tenantID)
		if result.Allowed {
			c.Next()
			return
		}

		message := "Too many requests for this university, please slow down"
		if result.Scope == ratelimit.ScopeGlobal {
			message = "The service is under heavy load, please retry later"
		}

		a.logger.Debugw("request rejected by rate limiter",
			"tenant_id", tenantID,
			"scope", string(result.Scope),
			"path", c.Request.URL.Path)

		c.Header("Retry-After", strconv.Itoa(result.RetryAfter))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate_limit_exceeded",
			"message":     message,
			"retry_after": result.RetryAfter,
		})
		c.Abort()
	}
}

func (a *Admission) exempt(path string) bool {
	for _, prefix := range a.exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
