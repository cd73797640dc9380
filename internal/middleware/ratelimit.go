package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	pkgredis "github.com/penline/blog/internal/pkg/redis"
	"github.com/penline/blog/internal/pkg/response"
	"go.uber.org/zap"
)

// RateLimit allows limit requests per window for each user (or client IP when anonymous).
// A nil client or a non-positive limit disables it; Redis errors let the request through.
func RateLimit(rc *pkgredis.Client, scope string, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc == nil || limit <= 0 {
			c.Next()
			return
		}

		subject := CurrentUserID(c)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		bucket := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("blog:rate_limit:%s:%s:%d", scope, subject, bucket)

		count, err := rc.IncrWindow(c.Request.Context(), key, window+time.Second)
		if err != nil {
			if log != nil {
				log.Warn("rate limit check failed", zap.String("scope", scope), zap.Error(err))
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(int64(limit)-count, 0), 10))
		if count > int64(limit) {
			retry := time.Duration(int64(window) - time.Now().UnixNano()%int64(window))
			response.TooManyRequests(c, strconv.Itoa(int(retry.Seconds())+1))
			return
		}
		c.Next()
	}
}
