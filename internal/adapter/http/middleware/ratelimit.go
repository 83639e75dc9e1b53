package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitRecorder receives rejected requests.
type RateLimitRecorder interface {
	RecordRateLimitHit(path string)
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles each caller separately. Callers are identified by
// the actor header, or by client IP when no actor is sent.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	recorder RateLimitRecorder
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter allows r requests per second with bursts of b.
func NewRateLimiter(r float64, b int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(r),
		burst:   b,
		now:     time.Now,
	}
}

// WithRecorder sets the recorder notified of rejected requests.
func (rl *RateLimiter) WithRecorder(recorder RateLimitRecorder) *RateLimiter {
	rl.recorder = recorder
	return rl
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = rl.now()
	return c.limiter
}

// Limit rejects requests over the caller's budget with 429.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := rl.limiterFor(callerKey(r))

		if !limiter.Allow() {
			if rl.recorder != nil {
				rl.recorder.RecordRateLimitHit(normalizePath(r.URL.Path))
			}
			w.Header().Set("Retry-After", retryAfter(limiter.Limit()))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CleanupLimiters forgets callers idle for longer than maxIdle. A zero
// maxIdle forgets everyone.
func (rl *RateLimiter) CleanupLimiters(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-maxIdle)
	for key, c := range rl.clients {
		if !c.lastSeen.After(cutoff) {
			delete(rl.clients, key)
		}
	}
}

func callerKey(r *http.Request) string {
	if actor := strings.TrimSpace(r.Header.Get(ActorHeader)); actor != "" {
		return "actor:" + actor
	}
	return "ip:" + clientIP(r)
}

// retryAfter is the whole number of seconds until one more token exists.
func retryAfter(limit rate.Limit) string {
	if limit <= 0 {
		return "60"
	}
	return strconv.Itoa(int(math.Ceil(1 / float64(limit))))
}

// clientIP extracts the client IP from the request. The first
// X-Forwarded-For hop wins when the service runs behind a proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
