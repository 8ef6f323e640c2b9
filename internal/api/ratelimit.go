package api

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter caps requests per client over a fixed window. It guards
// the endpoints that hit the telemetry database on every call. Stale
// windows are pruned whenever a fresh one opens, so no background
// goroutine is needed.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*reqWindow
	limit   int
	span    time.Duration
}

type reqWindow struct {
	count int
	start time.Time
}

// NewRateLimiter allows limit requests per span for each client.
func NewRateLimiter(limit int, span time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*reqWindow),
		limit:   limit,
		span:    span,
	}
}

// Allow records a request for the client and reports whether it fits
// within the current window.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.clients[client]
	if !ok || now.Sub(w.start) >= rl.span {
		rl.prune(now)
		rl.clients[client] = &reqWindow{count: 1, start: now}
		return true
	}
	if w.count < rl.limit {
		w.count++
		return true
	}
	return false
}

// RetryAfter returns whole seconds until the client's window resets.
func (rl *RateLimiter) RetryAfter(client string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[client]
	if !ok {
		return 0
	}
	left := rl.span - time.Since(w.start)
	if left <= 0 {
		return 0
	}
	return int(left.Seconds()) + 1
}

func (rl *RateLimiter) prune(now time.Time) {
	for c, w := range rl.clients {
		if now.Sub(w.start) >= 2*rl.span {
			delete(rl.clients, c)
		}
	}
}

// clientKey identifies the requester: the first X-Forwarded-For hop
// when proxied, otherwise the remote address without its port.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware rejects over-limit requests with 429 and a
// Retry-After hint.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := clientKey(r)
		if !rl.Allow(client) {
			slog.Debug("telemetry query rate limited", "client", client)
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter(client)))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
