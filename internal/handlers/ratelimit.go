package handlers

import (
	"sync"
	"time"

	"bloglist/internal/apperror"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter keeps one token bucket per client IP.
type loginLimiter struct {
	mu      sync.Mutex
	perSec  rate.Limit
	burst   int
	clients map[string]*limiterEntry
	now     func() time.Time
}

func newLoginLimiter(perSecond float64, burst int) *loginLimiter {
	return &loginLimiter{
		perSec:  rate.Limit(perSecond),
		burst:   burst,
		clients: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

func (l *loginLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	e, ok := l.clients[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.perSec, l.burst)}
		l.clients[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// evictIdle drops buckets not used for limiterIdleTTL. Caller holds mu.
func (l *loginLimiter) evictIdle(now time.Time) {
	for k, e := range l.clients {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(l.clients, k)
		}
	}
}

func (h *Handler) rateLimitLogin(c *gin.Context) {
	if !h.limiter.allow(c.ClientIP()) {
		h.log.Infow("login_rate_limited", "client_ip", c.ClientIP())
		h.fail(c, apperror.ErrRateLimited)
		return
	}
	c.Next()
}
