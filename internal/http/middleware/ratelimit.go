package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	last  time.Time
	count int
}

// MemoryLimiter is a per-process fixed-window limiter keyed by client IP. It
// guards routes that must stay limited even without Redis.
type MemoryLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientInfo
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

func NewMemoryLimiter(maxRequests int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		clients:     make(map[string]*clientInfo),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow counts one request from key.
func (l *MemoryLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ci, ok := l.clients[key]
	if !ok || now.Sub(ci.last) > l.window {
		l.clients[key] = &clientInfo{last: now, count: 1}
		l.prune(now)
		return true
	}

	ci.count++
	return ci.count <= l.maxRequests
}

// prune drops windows that ended; caller holds mu.
func (l *MemoryLimiter) prune(now time.Time) {
	if len(l.clients) < 1024 {
		return
	}
	for k, ci := range l.clients {
		if now.Sub(ci.last) > l.window {
			delete(l.clients, k)
		}
	}
}

// Middleware blocks clients that send more than maxRequests per window.
func (l *MemoryLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			RLBlocked.WithLabelValues("memory:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues("memory:" + c.FullPath()).Inc()
		c.Next()
	}
}
