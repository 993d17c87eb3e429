package middleware

import (
	"context"
	"fmt"
	"time"

	"questrack/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// RateLimiter is satisfied by ratelimit.Limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, max int, window time.Duration) error
}

// RateLimitPolicy caps hits per caller within Window. Zero disables a cap.
type RateLimitPolicy struct {
	Window  time.Duration `yaml:"window"`
	UserMax int           `yaml:"userMax"`
	IPMax   int           `yaml:"ipMax"`
}

// RateLimit enforces policy for routeKey. The user cap applies once an
// auth middleware has set "user_id".
func RateLimit(limiter RateLimiter, routeKey string, policy RateLimitPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		if policy.IPMax > 0 {
			key := fmt.Sprintf("questrack:rate:ip:%s:%s", c.ClientIP(), routeKey)
			if err := limiter.Allow(ctx, key, policy.IPMax, policy.Window); err != nil {
				response.AbortWithError(c, err)
				return
			}
		}
		if policy.UserMax > 0 {
			if userID, ok := c.Get("user_id"); ok {
				key := fmt.Sprintf("questrack:rate:user:%v:%s", userID, routeKey)
				if err := limiter.Allow(ctx, key, policy.UserMax, policy.Window); err != nil {
					response.AbortWithError(c, err)
					return
				}
			}
		}
		c.Next()
	}
}
