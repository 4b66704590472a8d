package middleware

import (
	"fmt"
	"strconv"
	"time"

	redispkg "github.com/bluelog/core/internal/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit returns a middleware that allows at most max requests per client
// IP in each fixed window. A nil client disables the limit. The admin is never
// limited. deny writes the rejection.
func RateLimit(rdb *redispkg.Client, scope string, max int64, window time.Duration, log *zap.Logger, deny gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || max <= 0 || IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		windowKey := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("bluelog:rate_limit:%s:%s:%d", scope, ip, windowKey)

		count, err := rdb.Hit(c.Request.Context(), key, window+time.Second)
		if err != nil {
			log.Warn("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > max {
			c.Header("Retry-After", strconv.Itoa(int(window/time.Second)))
			deny(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
