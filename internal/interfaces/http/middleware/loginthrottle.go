package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"campus/internal/shared/utils"
)

// LoginThrottle bounds login attempts per client IP with a token bucket.
// This is a brute-force guard on the unauthenticated surface, separate from
// the tenant admission limiter (which needs a verified identity to key on).
type LoginThrottle struct {
	attemptsPerMinute int
	mu                sync.Mutex
	clients           map[string]*ipLimiter
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLoginThrottle(attemptsPerMinute int) *LoginThrottle {
	if attemptsPerMinute <= 0 {
		attemptsPerMinute = 10
	}
	return &LoginThrottle{
		attemptsPerMinute: attemptsPerMinute,
		clients:           map[string]*ipLimiter{},
	}
}

func (t *LoginThrottle) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many login attempts, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (t *LoginThrottle) allow(clientIP string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.clients[clientIP]
	if !ok {
		entry = &ipLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(t.attemptsPerMinute)), t.attemptsPerMinute),
		}
		t.clients[clientIP] = entry
	}
	entry.lastSeen = time.Now()
	t.gcLocked()

	return entry.limiter.Allow()
}

func (t *LoginThrottle) gcLocked() {
	if len(t.clients) < 1000 {
		return
	}
	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, entry := range t.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(t.clients, ip)
		}
	}
}
