package httpserver

import (
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"rewardsplit/internal/platform/metrics"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

const minLimiterIdle = 5 * time.Minute

// operatorLimiter keeps one token bucket per X-User-Id. A zero rate disables
// limiting. Buckets unused for idle are dropped; idle is never shorter than
// a full refill, so a dropped bucket was already full.
type operatorLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	idle      time.Duration
	clock     clockwork.Clock
	lastSweep time.Time
	buckets   map[string]*operatorBucket
}

type operatorBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newOperatorLimiter(rps float64, burst int, clock clockwork.Clock) *operatorLimiter {
	if burst <= 0 {
		burst = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	idle := minLimiterIdle
	if rps > 0 {
		if refill := float64(burst) / rps; refill > idle.Seconds() {
			idle = time.Duration(math.MaxInt64)
			if refill < idle.Seconds() {
				idle = time.Duration(refill * float64(time.Second))
			}
		}
	}
	return &operatorLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		idle:      idle,
		clock:     clock,
		lastSweep: clock.Now(),
		buckets:   make(map[string]*operatorBucket),
	}
}

func (l *operatorLimiter) allow(operatorID string) bool {
	if l == nil || l.rps <= 0 {
		return true
	}
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}
	bucket, ok := l.buckets[operatorID]
	if !ok {
		bucket = &operatorBucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[operatorID] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

// sweep runs with mu held.
func (l *operatorLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.idle)
	for operatorID, bucket := range l.buckets {
		if bucket.lastSeen.Before(cutoff) {
			delete(l.buckets, operatorID)
		}
	}
	l.lastSweep = now
}

// limit guards a mutating route: it requires an operator id and spends one
// token from that operator's bucket.
func (s *Server) limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operatorID := strings.TrimSpace(r.Header.Get("X-User-Id"))
		if operatorID == "" {
			writePayoutError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
			return
		}
		if !s.limiter.allow(operatorID) {
			metrics.RateLimitedTotal.Inc()
			s.logger.Warn("operator rate limited",
				"event", "http_rate_limited",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"operator_id", operatorID,
				"path", r.URL.Path,
			)
			writePayoutError(w, http.StatusTooManyRequests, "rate_limited", "too many edits, slow down")
			return
		}
		next(w, r)
	}
}
