package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/penline/blog/internal/pkg/jwt"
	pkgredis "github.com/penline/blog/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() { gin.SetMode(gin.TestMode) }

func newRedis(t *testing.T) *pkgredis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return pkgredis.Wrap(rdb)
}

func serve(r http.Handler, method, target, token string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAdmin(t *testing.T) {
	r := gin.New()
	r.GET("/x", Admin(), func(c *gin.Context) { c.String(http.StatusOK, CurrentUserID(c)) })

	admin, err := jwt.Sign("u1", true, time.Hour)
	require.NoError(t, err)
	reader, err := jwt.Sign("u2", false, time.Hour)
	require.NoError(t, err)
	expired, err := jwt.Sign("u1", true, -time.Minute)
	require.NoError(t, err)

	w := serve(r, http.MethodGet, "/x", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/x", reader, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/x", expired, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/x", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/x", "garbage", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x?token="+admin, "", nil).Code)
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "abc", NormalizeToken("  Bearer abc "))
	assert.Equal(t, "abc", NormalizeToken("bearer abc"))
	assert.Equal(t, "abc", NormalizeToken("abc"))
	assert.Empty(t, NormalizeToken("   "))
}

func TestRateLimit(t *testing.T) {
	rc := newRedis(t)
	r := gin.New()
	r.POST("/gen", RateLimit(rc, "ai", 2, time.Minute, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/gen", "", nil).Code)
	w := serve(r, http.MethodPost, "/gen", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(r, http.MethodPost, "/gen", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.POST("/gen", RateLimit(nil, "ai", 1, time.Minute, nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/gen", "", nil).Code)
	}
}

func TestIdempotence(t *testing.T) {
	rc := newRedis(t)
	status := http.StatusOK
	r := gin.New()
	r.Use(Idempotence(rc))
	r.POST("/gen", func(c *gin.Context) { c.Status(status) })
	r.GET("/gen", func(c *gin.Context) { c.Status(http.StatusOK) })

	body := []byte(`{"topic":"a"}`)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/gen", "", body).Code)
	assert.Equal(t, http.StatusConflict, serve(r, http.MethodPost, "/gen", "", body).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/gen", "", []byte(`{"topic":"b"}`)).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/gen", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/gen", "", nil).Code)

	status = http.StatusBadGateway
	assert.Equal(t, http.StatusBadGateway, serve(r, http.MethodPost, "/gen", "", []byte(`{"topic":"c"}`)).Code)
	assert.Equal(t, http.StatusBadGateway, serve(r, http.MethodPost, "/gen", "", []byte(`{"topic":"c"}`)).Code)
}

func TestLoggerAssignsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/ping", "", nil)
	id := w.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, id, logs.All()[0].ContextMap()["request_id"])

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))
}
