// README: Redis-backed per-IP rate limiter for the verification path.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitWindow = time.Minute

// RateLimit caps requests per client IP per minute using a shared redis
// counter, so the cap holds across instances. The verifier itself enforces
// no attempt limit; this is the only brute-force backstop in front of it.
// With a nil client the limiter is a no-op.
func RateLimit(rdb *redis.Client, perMinute int, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Fail open: losing redis must not take verification down.
			log.Warn("rate limiter unavailable", "err", err)
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, rateLimitWindow)
		}

		if count > int64(perMinute) {
			log.Warn("rate limit exceeded",
				"client_ip", c.ClientIP(),
				"path", c.FullPath(),
				"request_id", GetRequestID(c),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, try again later",
			})
			return
		}
		c.Next()
	}
}
