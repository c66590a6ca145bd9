package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models/dto"
)

// hitCounter counts requests per key inside a fixed window.
type hitCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

type redisCounter struct {
	client *redis.Client
}

func (r redisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		r.client.Expire(ctx, key, window)
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		ttl = window
	}
	return count, ttl, nil
}

// RateLimiter limits requests per client IP using counters stored in Redis.
type RateLimiter struct {
	counter hitCounter
	logger  zerolog.Logger
}

// NewRateLimiter creates a RateLimiter. With a nil client every request is allowed.
func NewRateLimiter(redisClient *redis.Client, logger zerolog.Logger) *RateLimiter {
	rl := &RateLimiter{logger: logger}
	if redisClient != nil {
		rl.counter = redisCounter{client: redisClient}
	}
	return rl
}

// Limit allows at most limit requests per window for each client IP. Redis
// failures let the request through.
func (rl *RateLimiter) Limit(keySuffix string, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.counter == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), keySuffix)
		count, ttl, err := rl.counter.Hit(c.Request.Context(), key, window)
		if err != nil {
			rl.logger.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable")
			c.Next()
			return
		}

		if count > limit {
			retryAfter := int(ttl.Seconds())
			if retryAfter <= 0 {
				retryAfter = int(window.Seconds())
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeRateLimited,
				fmt.Sprintf("Bạn đã gửi quá nhiều yêu cầu. Vui lòng thử lại sau %d giây.", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}
