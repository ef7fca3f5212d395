package middleware

import (
	"net/http"
	"time"

	"github.com/brightclass/brightclass-backend/internal/config"
	"github.com/brightclass/brightclass-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// LoginRateLimiter limits credential-bearing endpoints per client IP using a
// fixed Redis window, so the count survives restarts and is shared across
// instances. Redis being down fails open: a broken cache should not lock
// everyone out.
type LoginRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	log    zerolog.Logger
}

// NewLoginRateLimiter creates a limiter allowing limit attempts per window.
func NewLoginRateLimiter(rdb *redis.Client, limit int, window time.Duration, log zerolog.Logger) *LoginRateLimiter {
	return &LoginRateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		log:    log.With().Str("component", "rate_limiter").Logger(),
	}
}

// Middleware returns a Gin middleware enforcing the limit.
func (rl *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := config.CacheKey.LoginAttemptsKey(c.ClientIP())

		count, err := rl.rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			rl.log.Warn().Err(err).Msg("rate limit counter unavailable")
			c.Next()
			return
		}
		if count == 1 {
			rl.rdb.Expire(c.Request.Context(), key, rl.window)
		}

		if count > int64(rl.limit) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}
