package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimit allows limit requests per client IP per minute, counted in Redis.
// Requests pass when Redis is unavailable.
func RateLimit(limit int, redisClient *redis.Client, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		window := time.Now().Unix() / 60
		key := "rate_limit:" + c.ClientIP() + ":" + strconv.FormatInt(window, 10)

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		pipe := redisClient.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, time.Minute)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.WithError(err).Warn("Rate limiter unavailable")
			c.Next()
			return
		}

		current := int(incr.Val())
		remaining := limit - current
		if remaining < 0 {
			remaining = 0
		}
		reset := (window + 1) * 60

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

		if current > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": reset - time.Now().Unix(),
			})
			return
		}

		c.Next()
	}
}
