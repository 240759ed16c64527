package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// WagerRateLimit limits wager operations per wallet (not per IP) using Redis.
// Requires the JWT middleware to run before this.
func WagerRateLimit(maxOps int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			// Redis not configured, fail-open
			c.Next()
			return
		}

		walletVal, exists := c.Get("wallet")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		wallet, ok := walletVal.(string)
		if !ok || wallet == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid wallet"})
			return
		}

		key := "wager_rl:" + wallet + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		ctx := context.Background()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// On Redis error, fail-open
			c.Header("X-WagerRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		c.Header("X-WagerRateLimit-Limit", strconv.Itoa(maxOps))
		c.Header("X-WagerRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxOps)-val), 10))

		if val > int64(maxOps) {
			RLBlocked.WithLabelValues("wager:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "wager rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("wager:" + c.FullPath()).Inc()
		c.Next()
	}
}
