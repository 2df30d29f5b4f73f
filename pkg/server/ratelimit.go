package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/polisai/skillicons/pkg/config"
	"github.com/polisai/skillicons/pkg/domain"
)

// RateLimiter applies a token bucket per endpoint. Endpoints are the bounded
// names used for metrics, so the bucket map never grows past a handful.
type RateLimiter struct {
	rps   float64
	burst float64

	mu      sync.Mutex
	buckets map[string]*tokenBucket
	now     func() time.Time

	metricsPath string
}

// NewRateLimiter returns nil when cfg disables limiting.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.RequestsPerSecond
	}
	return &RateLimiter{
		rps:         float64(cfg.RequestsPerSecond),
		burst:       float64(burst),
		buckets:     make(map[string]*tokenBucket),
		now:         time.Now,
		metricsPath: "/metrics",
	}
}

// Allow consumes one token for endpoint and reports the tokens left.
func (rl *RateLimiter) Allow(endpoint string) (bool, int) {
	rl.mu.Lock()
	bucket, ok := rl.buckets[endpoint]
	if !ok {
		bucket = &tokenBucket{tokens: rl.burst, lastRefill: rl.now()}
		rl.buckets[endpoint] = bucket
	}
	rl.mu.Unlock()

	return bucket.take(rl.now(), rl.rps, rl.burst)
}

// Wrap rejects requests over the limit with 429. Health checks are never limited.
func (rl *RateLimiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := endpointName(r.URL.Path, rl.metricsPath)
		if endpoint == "health" {
			next.ServeHTTP(w, r)
			return
		}

		allowed, remaining := rl.Allow(endpoint)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(int(rl.burst)))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(1/rl.rps))))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
			Code:    domain.CodeRateLimited,
			Message: "Too many requests, slow down",
		})
	})
}

type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

func (tb *tokenBucket) take(now time.Time, rate, capacity float64) (bool, int) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = math.Min(capacity, tb.tokens+now.Sub(tb.lastRefill).Seconds()*rate)
	tb.lastRefill = now

	if tb.tokens < 1 {
		return false, 0
	}
	tb.tokens--
	return true, int(tb.tokens)
}
