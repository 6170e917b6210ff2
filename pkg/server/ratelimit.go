package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultVisitorTTL  = 10 * time.Minute
	defaultMaxVisitors = 10000
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client IP. Buckets idle for longer
// than ttl are swept lazily on access. At most max buckets are kept; when
// full, the least recently seen one is evicted.
type ipLimiter struct {
	rps   rate.Limit
	burst int
	ttl   time.Duration
	max   int
	now   func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newIPLimiter(rps float64, burst int, ttl time.Duration) *ipLimiter {
	if ttl <= 0 {
		ttl = defaultVisitorTTL
	}
	return &ipLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		max:      defaultMaxVisitors,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.ttl {
		l.sweep(now)
	}

	v, ok := l.visitors[ip]
	if !ok {
		if len(l.visitors) >= l.max {
			l.sweep(now)
		}
		if len(l.visitors) >= l.max {
			l.evictOldest()
		}
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

func (l *ipLimiter) sweep(now time.Time) {
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, k)
		}
	}
	l.lastSweep = now
}

func (l *ipLimiter) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for k, v := range l.visitors {
		if !found || v.lastSeen.Before(oldest) {
			oldestKey, oldest, found = k, v.lastSeen, true
		}
	}
	delete(l.visitors, oldestKey)
}

func (l *ipLimiter) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			respondWithError(w, r, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *ipLimiter) retryAfterSeconds() int {
	if l.rps <= 0 {
		return 1
	}
	secs := int(1 / float64(l.rps))
	if secs < 1 {
		secs = 1
	}
	return secs
}
