package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	pkgredis "github.com/penline/blog/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
)

const (
	idempotenceHeader = "X-Idempotence"
	idempotenceTTL    = 60 * time.Second
)

// Idempotence rejects a repeated POST while the first one is running or for a minute after it succeeded.
func Idempotence(rc *pkgredis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key, err := resolveIdempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		redisKey := "blog:idempotence:" + key
		ctx := c.Request.Context()
		ok, err := rc.Raw().SetNX(ctx, redisKey, "0", idempotenceTTL).Result()
		if err != nil {
			c.Next()
			return
		}
		if !ok {
			msg := "The same request already succeeded; wait a minute before sending it again."
			if val, _ := rc.Get(ctx, redisKey); val == "0" {
				msg = "The same request is still being processed."
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"ok": 0, "code": http.StatusConflict, "message": msg})
			return
		}

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			rc.Raw().Set(ctx, redisKey, "1", redis.KeepTTL)
		} else {
			_ = rc.Del(ctx, redisKey)
		}
	}
}

// resolveIdempotenceKey prefers the client's header; otherwise it hashes method, url, body and caller.
func resolveIdempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(idempotenceHeader); hdr != "" {
		return hdr, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	raw := fmt.Sprintf("%s|%s|%s|%s|%s", c.Request.Method, c.Request.URL.String(), body, c.ClientIP(), extractToken(c))
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
