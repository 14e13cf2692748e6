package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type keyLimiter struct {
	lim *rate.Limiter
	ts  time.Time
}

type ipLimiter struct {
	mu      sync.Mutex
	m       map[string]*keyLimiter
	r       rate.Limit
	b       int
	ttl     time.Duration
	swept   time.Time
	sweepIv time.Duration
}

func (rl *ipLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	// Sweep stale entries in-band; no background goroutine to leak.
	if now.Sub(rl.swept) > rl.sweepIv {
		for k, v := range rl.m {
			if now.Sub(v.ts) > rl.ttl {
				delete(rl.m, k)
			}
		}
		rl.swept = now
	}

	kl, ok := rl.m[key]
	if ok {
		kl.ts = now
		return kl.lim
	}
	lim := rate.NewLimiter(rl.r, rl.b)
	rl.m[key] = &keyLimiter{lim: lim, ts: now}
	return lim
}

// RateLimit is a per-IP+path token bucket for abuse-prone routes (auth).
func RateLimit(r rate.Limit, burst int) func(http.Handler) http.Handler {
	rl := &ipLimiter{
		m:       make(map[string]*keyLimiter),
		r:       r,
		b:       burst,
		ttl:     2 * time.Minute,
		swept:   time.Now(),
		sweepIv: 30 * time.Second,
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			key := clientIP(req.RemoteAddr) + "|" + req.URL.Path
			if !rl.get(key).Allow() {
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func clientIP(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return host
}
