package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiter yang tidak dipakai selama idleTTL dibuang saat sweep
const idleTTL = 10 * time.Minute

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type KeyedRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*keyedLimiter
	r         rate.Limit // request per detik
	b         int        // burst
	lastSweep time.Time
	now       func() time.Time
}

func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*keyedLimiter),
		r:        r,
		b:        b,
		now:      time.Now,
	}
}

// Reserve reports whether key may proceed and, when not, how long to wait.
func (k *KeyedRateLimiter) Reserve(key string) (bool, time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) > idleTTL {
		for key, l := range k.limiters {
			if now.Sub(l.lastSeen) > idleTTL {
				delete(k.limiters, key)
			}
		}
		k.lastSweep = now
	}

	l, ok := k.limiters[key]
	if !ok {
		l = &keyedLimiter{limiter: rate.NewLimiter(k.r, k.b)}
		k.limiters[key] = l
	}
	l.lastSeen = now

	if l.limiter.AllowN(now, 1) {
		return true, 0
	}
	if k.r <= 0 {
		return false, idleTTL
	}
	return false, time.Duration(float64(time.Second) / float64(k.r))
}

// RateLimitByUser keys on company and user so a shared user id across
// tenants does not share a bucket. Anonymous requests pass through.
func RateLimitByUser(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.Next()
			return
		}

		ok, wait := limiter.Reserve(c.GetString("company_id") + ":" + userID)
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			response.Error(c, http.StatusTooManyRequests, ErrTooManyRequests.Code, "Too many requests from this user", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
