package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimitConfig holds the fixed-window limiter settings.
type RateLimitConfig struct {
	// Requests allowed per client IP per window.
	Requests int
	// Window length.
	Window time.Duration
	// RedisKeyPrefix namespaces the counters.
	RedisKeyPrefix string
}

// DefaultRateLimitConfig returns sensible defaults for authentication
// endpoints.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests:       30,
		Window:         time.Minute,
		RedisKeyPrefix: "dashboard:ratelimit:",
	}
}

// RateLimiter applies a per-IP fixed-window limit to authentication
// endpoints. Counters live in Redis when available; without Redis a local
// in-memory window is used, and counter errors fail open so an unhealthy
// Redis never takes down authentication.
type RateLimiter struct {
	config      RateLimitConfig
	redisClient *redis.Client
	logger      *logrus.Logger

	localMu     sync.Mutex
	localCounts map[string]int
	localWindow time.Time
}

// NewRateLimiter creates a rate limiter. redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, logger *logrus.Logger, config RateLimitConfig) *RateLimiter {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if config.Requests <= 0 || config.Window <= 0 {
		config = DefaultRateLimitConfig()
	}
	return &RateLimiter{
		config:      config,
		redisClient: redisClient,
		logger:      logger,
		localCounts: make(map[string]int),
		localWindow: time.Now(),
	}
}

// Middleware returns the gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := rl.increment(c)
		if err != nil {
			rl.logger.WithError(err).Warn("Rate limit counter unavailable, allowing request")
			c.Next()
			return
		}

		if count > rl.config.Requests {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, slow down",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) increment(c *gin.Context) (int, error) {
	ip := c.ClientIP()

	if rl.redisClient != nil {
		window := time.Now().Unix() / int64(rl.config.Window.Seconds())
		key := fmt.Sprintf("%s%s:%d", rl.config.RedisKeyPrefix, ip, window)

		ctx := c.Request.Context()
		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			return 0, err
		}
		if count == 1 {
			rl.redisClient.Expire(ctx, key, rl.config.Window)
		}
		return int(count), nil
	}

	// Local fallback: one shared window, reset when it elapses.
	rl.localMu.Lock()
	defer rl.localMu.Unlock()
	if time.Since(rl.localWindow) > rl.config.Window {
		rl.localCounts = make(map[string]int)
		rl.localWindow = time.Now()
	}
	rl.localCounts[ip]++
	return rl.localCounts[ip], nil
}
