package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter is a sliding-window per-IP limiter. The gateway sits in
// front of a metered hosted platform, so runaway clients are cut off
// here before they burn quota.
type RateLimiter struct {
	rate     int
	interval time.Duration
	ips      map[string][]time.Time
	mu       sync.Mutex
}

func NewRateLimiter(rate int, intervalSeconds int) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		interval: time.Duration(intervalSeconds) * time.Second,
		ips:      make(map[string][]time.Time),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		defer rl.mu.Unlock()

		now := time.Now()
		cutoff := now.Add(-rl.interval)
		valid := make([]time.Time, 0)
		for _, t := range rl.ips[ip] {
			if t.After(cutoff) {
				valid = append(valid, t)
			}
		}

		if len(valid) >= rl.rate {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}

		rl.ips[ip] = append(valid, now)
		c.Next()
	}
}

// AuthRateLimiter puts a tighter per-IP budget on the credential
// endpoints: 5 attempts, refilling one every 12 seconds.
type AuthRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewAuthRateLimiter() *AuthRateLimiter {
	return &AuthRateLimiter{limiters: make(map[string]*rate.Limiter)}
}

func (a *AuthRateLimiter) limiterFor(ip string) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rate.Every(12*time.Second), 5)
		a.limiters[ip] = l
	}
	return l
}

func (a *AuthRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.limiterFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiados intentos, espera un momento",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
