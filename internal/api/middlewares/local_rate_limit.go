package middlewares

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimiter is a per-key token bucket held in process memory. It is
// the limiter used when no redis is configured.
type LocalRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*localBucket
	rate    rate.Limit
	burst   int
	keyFn   KeyFunc
	idle    time.Duration
}

// NewLocalRateLimiter starts a janitor that drops idle buckets until ctx ends.
func NewLocalRateLimiter(ctx context.Context, rps float64, burst int, keyFn KeyFunc) *LocalRateLimiter {
	rl := &LocalRateLimiter{
		buckets: make(map[string]*localBucket),
		rate:    rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		idle:    5 * time.Minute,
	}
	go rl.janitor(ctx)
	return rl
}

func (rl *LocalRateLimiter) janitor(ctx context.Context) {
	tk := time.NewTicker(rl.idle)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			rl.mu.Lock()
			for key, b := range rl.buckets {
				if time.Since(b.lastSeen) > rl.idle {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *LocalRateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

func (rl *LocalRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.keyFn(r)
		lim := rl.limiter(key)

		res := lim.Reserve()
		if !res.OK() {
			tooManyRequests(w, r, "LocalLimiter", key, 1)
			return
		}
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			tooManyRequests(w, r, "LocalLimiter", key, int64(math.Ceil(delay.Seconds())))
			return
		}

		w.Header().Set("X-RateLimit-Policy", "token-bucket")
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(lim.Tokens())))
		next.ServeHTTP(w, r)
	})
}
