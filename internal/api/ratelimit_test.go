package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentmind/internal/api"
)

func TestAllowCapsPerClient(t *testing.T) {
	rl := api.NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"))
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "limits are tracked per client")
	assert.Greater(t, rl.RetryAfter("10.0.0.1"), 0)
	assert.Equal(t, 0, rl.RetryAfter("10.0.0.3"), "unseen client has nothing to wait for")
}

func TestWindowResets(t *testing.T) {
	rl := api.NewRateLimiter(1, 20*time.Millisecond)

	require.True(t, rl.Allow("c"))
	require.False(t, rl.Allow("c"))

	time.Sleep(25 * time.Millisecond)
	assert.True(t, rl.Allow("c"))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := api.NewRateLimiter(1, time.Hour)
	handler := api.RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/goal-changes", nil)
	req.RemoteAddr = "192.0.2.1:4444"

	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// A proxied request is keyed by its first forwarded hop, not the
	// proxy's address.
	fwd := httptest.NewRequest(http.MethodGet, "/api/v1/goal-changes", nil)
	fwd.RemoteAddr = "192.0.2.1:4444"
	fwd.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec = httptest.NewRecorder()
	handler(rec, fwd)
	assert.Equal(t, http.StatusOK, rec.Code)
}
