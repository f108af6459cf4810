package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the per-IP budget for one route group.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Profiles mirror the limits the route groups have always had.
var (
	AuthLimit    = RateLimitConfig{RequestsPerWindow: 20, Window: 15 * time.Minute, Burst: 20}
	PostLimit    = RateLimitConfig{RequestsPerWindow: 10, Window: 15 * time.Minute, Burst: 10}
	CommentLimit = RateLimitConfig{RequestsPerWindow: 20, Window: 15 * time.Minute, Burst: 20}
	LikeLimit    = RateLimitConfig{RequestsPerWindow: 50, Window: 15 * time.Minute, Burst: 50}
	SaveLimit    = RateLimitConfig{RequestsPerWindow: 20, Window: 15 * time.Minute, Burst: 20}
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit keeps one limiter per client IP and answers 429 once the
// window's budget is spent. Entries idle for three windows are evicted.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)
	limit := rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds())

	go func() {
		ticker := time.NewTicker(cfg.Window)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			for ip, cl := range clients {
				if time.Since(cl.lastSeen) > 3*cfg.Window {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		cl, ok := clients[ip]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(limit, cfg.Burst)}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests, please try again later.",
				"error":   "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
