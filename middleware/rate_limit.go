package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// loginAttempt tracks failed login attempts from one IP
type loginAttempt struct {
	count   int
	firstAt time.Time
}

// LoginRateLimiter throttles login attempts per client IP: after
// maxAttempts failures within the window, further attempts are rejected
// until the window expires.
type LoginRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempt
	maxAttempts int
	window      time.Duration
}

// NewLoginRateLimiter creates a limiter allowing maxAttempts failed logins
// per window.
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		attempts:    make(map[string]*loginAttempt),
		maxAttempts: maxAttempts,
		window:      window,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *LoginRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, attempt := range rl.attempts {
			if now.Sub(attempt.firstAt) > rl.window {
				delete(rl.attempts, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allowed reports whether ip may attempt a login and, if not, how long
// until the window resets.
func (rl *LoginRateLimiter) allowed(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	attempt, exists := rl.attempts[ip]
	if !exists {
		return true, 0
	}
	if time.Since(attempt.firstAt) > rl.window {
		delete(rl.attempts, ip)
		return true, 0
	}
	if attempt.count >= rl.maxAttempts {
		return false, rl.window - time.Since(attempt.firstAt)
	}
	return true, 0
}

// RecordAttempt records the outcome of a login attempt for ip. A success
// clears the counter.
func (rl *LoginRateLimiter) RecordAttempt(ip string, success bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if success {
		delete(rl.attempts, ip)
		return
	}

	attempt, exists := rl.attempts[ip]
	if !exists || time.Since(attempt.firstAt) > rl.window {
		rl.attempts[ip] = &loginAttempt{count: 1, firstAt: time.Now()}
		return
	}
	attempt.count++
}

// Middleware rejects over-limit login attempts with 429
func (rl *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ok, retryAfter := rl.allowed(c.ClientIP())
		if !ok {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "too_many_attempts",
				"message": fmt.Sprintf("Too many failed login attempts. Try again in %d second(s).", int(retryAfter.Seconds())),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
