package middleware

import (
	"sync"
	"time"

	"dinehub/internal/config"
	"dinehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle scanner keeps its bucket
const visitorTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucket throttles each scanner (authenticated user, else client IP)
// with its own token bucket.
type TokenBucket struct {
	perSecond rate.Limit
	burst     int

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewTokenBucket creates a limiter from the verify throttle settings
func NewTokenBucket(cfg config.RateLimitConfig) *TokenBucket {
	return &TokenBucket{
		perSecond: rate.Limit(cfg.VerifyPerSecond),
		burst:     cfg.VerifyBurst,
		visitors:  make(map[string]*visitor),
	}
}

// Handler rejects requests over the caller's budget with 429
func (b *TokenBucket) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := UserID(c)
		if key == "" {
			key = c.IP()
		}

		if !b.limiter(key).Allow() {
			return response.TooManyRequests(c, "Too many verification attempts, please slow down")
		}
		return c.Next()
	}
}

func (b *TokenBucket) limiter(key string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(b.perSecond, b.burst)}
		b.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup drops idle visitors every minute until stop is closed
func (b *TokenBucket) Cleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.evict(time.Now())
		case <-stop:
			return
		}
	}
}

func (b *TokenBucket) evict(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, v := range b.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(b.visitors, key)
		}
	}
}
