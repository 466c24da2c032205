package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	ips map[string]*visitor
	mu  *sync.RWMutex
	r   rate.Limit
	b   int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		ips: make(map[string]*visitor),
		mu:  &sync.RWMutex{},
		r:   r,
		b:   b,
	}

	go i.cleanupVisitors()

	return i
}

// GetLimiter returns the limiter for ip, creating it on first sight.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, exists := i.ips[ip]
	if !exists {
		limiter := rate.NewLimiter(i.r, i.b)
		i.ips[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Len reports how many IPs are tracked.
func (i *IPRateLimiter) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.ips)
}

func (i *IPRateLimiter) evictIdle(maxIdle time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for ip, v := range i.ips {
		if time.Since(v.lastSeen) > maxIdle {
			delete(i.ips, ip)
		}
	}
}

// cleanupVisitors drops IPs idle for more than three minutes.
func (i *IPRateLimiter) cleanupVisitors() {
	for {
		time.Sleep(1 * time.Minute)
		i.evictIdle(3 * time.Minute)
	}
}

// RateLimitMiddleware allows r requests per second per IP with bursts up to b.
// Auth endpoints are the main target: they hit the identity provider.
func RateLimitMiddleware(r float64, b int) gin.HandlerFunc {
	limiter := NewIPRateLimiter(rate.Limit(r), b)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if limiter := limiter.GetLimiter(ip); !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests. Please slow down.",
			})
			return
		}
		c.Next()
	}
}
