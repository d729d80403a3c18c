package httpadapter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/observability/metrics"
)

// clientLimiters hands out one token bucket per client IP and evicts
// buckets that have been idle for a while.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rps      rate.Limit
	burst    int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiters{
		limiters: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (c *clientLimiters) allow(clientIP string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.limiters[clientIP]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(c.rps, c.burst)}
		c.limiters[clientIP] = entry
	}
	entry.lastSeen = time.Now()

	if len(c.limiters) > 1024 {
		c.evictIdleLocked(10 * time.Minute)
	}
	return entry.limiter.Allow()
}

func (c *clientLimiters) evictIdleLocked(idle time.Duration) {
	cutoff := time.Now().Add(-idle)
	for ip, entry := range c.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(c.limiters, ip)
		}
	}
}

func rateLimitMiddleware(next http.Handler, rps float64, burst int, m *metrics.HTTPServerMetrics, service string) http.Handler {
	limiters := newClientLimiters(rps, burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Health and scrape endpoints are never throttled.
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			clientIP = host
		}

		if !limiters.allow(clientIP) {
			if m != nil {
				m.RecordRateLimited(service, r.URL.Path)
			}
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
