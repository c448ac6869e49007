package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for per-client rate limiting
type RateLimiterConfig struct {
	RequestsPerMinute int // Max context requests per client per minute
	BurstSize         int // Allow burst of N requests
	MaxClients        int // Bound on tracked clients before LRU eviction
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a request can proceed and consumes a token if so
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	// Refill tokens based on elapsed time
	tb.tokens = min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// Remaining returns the number of tokens remaining
func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tokens := min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	return int(tokens)
}

// ClientRateLimiter manages rate limits per client address. Buckets live in
// an LRU cache so traffic from many distinct addresses cannot grow memory
// without bound.
type ClientRateLimiter struct {
	config  RateLimiterConfig
	buckets *lru.Cache
	logger  *zap.Logger
}

// NewClientRateLimiter creates a client-address rate limiter
func NewClientRateLimiter(config RateLimiterConfig, logger *zap.Logger) (*ClientRateLimiter, error) {
	maxClients := config.MaxClients
	if maxClients <= 0 {
		maxClients = 1024
	}

	buckets, err := lru.New(maxClients)
	if err != nil {
		return nil, err
	}

	return &ClientRateLimiter{
		config:  config,
		buckets: buckets,
		logger:  logger,
	}, nil
}

// bucketFor returns the client's bucket, creating it on first sight.
// PeekOrAdd keeps concurrent first requests from racing into separate buckets.
func (crl *ClientRateLimiter) bucketFor(clientIP string) *TokenBucket {
	refillRate := float64(crl.config.RequestsPerMinute) / 60.0
	fresh := NewTokenBucket(float64(crl.config.BurstSize), refillRate)

	if previous, ok, _ := crl.buckets.PeekOrAdd(clientIP, fresh); ok {
		return previous.(*TokenBucket)
	}
	return fresh
}

// Allow checks if a request from the given client can proceed
func (crl *ClientRateLimiter) Allow(clientIP string) (allowed bool, remaining int) {
	bucket := crl.bucketFor(clientIP)
	return bucket.Allow(), bucket.Remaining()
}

// RateLimitMiddleware creates a Gin middleware that limits requests per client address
func RateLimitMiddleware(limiter *ClientRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		allowed, remaining := limiter.Allow(clientIP)

		// Add rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.config.BurstSize))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			limiter.logger.Warn("Rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.Int("limit", limiter.config.BurstSize))

			c.Header("Retry-After", "60") // Suggest retry after 60 seconds
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"limit":       limiter.config.BurstSize,
				"remaining":   remaining,
				"retry_after": 60,
			})
			return
		}

		c.Next()
	}
}
