package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus/internal/infrastructure/ratelimit"
	"campus/internal/shared/constants"
	"campus/internal/shared/logger"
)

type stubLimiter struct {
	result  ratelimit.Result
	lastKey string
	calls   int
}

func (s *stubLimiter) Admit(_ context.Context, tenantID string) ratelimit.Result {
	s.lastKey = tenantID
	s.calls++
	return s.result
}

func admissionEngine(admission *Admission, tenantID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if tenantID != "" {
			c.Set(constants.ContextKeyTenantID, tenantID)
		}
	})
	engine.Use(admission.Limit())
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/v1/universities/:tenantID/students", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func TestAdmission_AllowedRequestPasses(t *testing.T) {
	limiter := &stubLimiter{result: ratelimit.Result{Allowed: true}}
	admission := NewAdmission(limiter, true, []string{"/health"}, logger.NewLogger())
	engine := admissionEngine(admission, "uni_abc")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/universities/uni_abc/students", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uni_abc", limiter.lastKey)
}

func TestAdmission_RejectedRequestGets429(t *testing.T) {
	limiter := &stubLimiter{result: ratelimit.Result{
		Allowed:    false,
		Scope:      ratelimit.ScopeTenant,
		RetryAfter: 60,
	}}
	admission := NewAdmission(limiter, true, nil, logger.NewLogger())
	engine := admissionEngine(admission, "uni_abc")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/universities/uni_abc/students", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "rate_limit_exceeded", body["error"])
	assert.Equal(t, float64(60), body["retry_after"])
	assert.NotEmpty(t, body["message"])
}

func TestAdmission_GlobalRejectionMessageDiffers(t *testing.T) {
	tenantLimiter := &stubLimiter{result: ratelimit.Result{Allowed: false, Scope: ratelimit.ScopeTenant, RetryAfter: 60}}
	globalLimiter := &stubLimiter{result: ratelimit.Result{Allowed: false, Scope: ratelimit.ScopeGlobal, RetryAfter: 60}}

	responses := map[*stubLimiter]string{}
	for _, limiter := range []*stubLimiter{tenantLimiter, globalLimiter} {
		admission := NewAdmission(limiter, true, nil, logger.NewLogger())
		engine := admissionEngine(admission, "uni_abc")

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/universities/uni_abc/students", nil))
		require.Equal(t, http.StatusTooManyRequests, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		responses[limiter] = body["message"].(string)
	}

	assert.NotEqual(t, responses[tenantLimiter], responses[globalLimiter])
}

func TestAdmission_ExemptPathSkipsLimiter(t *testing.T) {
	limiter := &stubLimiter{result: ratelimit.Result{Allowed: false, Scope: ratelimit.ScopeGlobal, RetryAfter: 60}}
	admission := NewAdmission(limiter, true, []string{"/health"}, logger.NewLogger())
	engine := admissionEngine(admission, "")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, limiter.calls)
}

func TestAdmission_DisabledSkipsLimiter(t *testing.T) {
	limiter := &stubLimiter{result: ratelimit.Result{Allowed: false, Scope: ratelimit.ScopeTenant, RetryAfter: 60}}
	admission := NewAdmission(limiter, false, nil, logger.NewLogger())
	engine := admissionEngine(admission, "uni_abc")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/universities/uni_abc/students", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, limiter.calls)
}

func TestAdmission_CrossTenantSharedBucket(t *testing.T) {
	limiter := &stubLimiter{result: ratelimit.Result{Allowed: true}}
	admission := NewAdmission(limiter, true, nil, logger.NewLogger())
	engine := admissionEngine(admission, "")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/universities/uni_abc/students", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cross-tenant", limiter.lastKey)
}
