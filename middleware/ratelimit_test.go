package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doReq(router *gin.Engine, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Real-IP", ip)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_MemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimit(NewMemoryStore(), 2, time.Minute, nil))
	router.GET("/api/expenses", func(c *gin.Context) {
		c.String(200, "ok")
	})

	// 同一 IP 连续 3 次，第 3 次应返回 429
	w1 := doReq(router, "GET", "/api/expenses", "192.168.1.1")
	w2 := doReq(router, "GET", "/api/expenses", "192.168.1.1")
	w3 := doReq(router, "GET", "/api/expenses", "192.168.1.1")

	assert.Equal(t, 200, w1.Code)
	assert.Equal(t, "1", w1.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, 200, w2.Code)
	assert.Equal(t, http.StatusTooManyRequests, w3.Code)
	assert.Contains(t, w3.Body.String(), "Too many requests")
	assert.NotEmpty(t, w3.Header().Get("Retry-After"))

	// 不同 IP 互不影响
	assert.Equal(t, 200, doReq(router, "GET", "/api/expenses", "192.168.1.2").Code)
}

func TestMemoryStore_WindowReset(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	count, ttl, err := store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, ttl)

	now = now.Add(30 * time.Second)
	count, ttl, _ = store.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 30*time.Second, ttl)

	// 窗口结束后重新计数
	now = now.Add(30 * time.Second)
	count, _, _ = store.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(1), count)
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("connection refused")
}

func TestRateLimit_StoreFailureFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimit(failingStore{}, 1, time.Minute, nil))
	router.GET("/ping", func(c *gin.Context) { c.String(200, "ok") })

	for i := 0; i < 3; i++ {
		assert.Equal(t, 200, doReq(router, "GET", "/ping", "10.0.0.1").Code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 每分钟 2 次，突发 2 次
	router := gin.New()
	router.Use(LoginRateLimit(2))
	router.POST("/login", func(c *gin.Context) {
		c.String(200, "ok")
	})

	w1 := doReq(router, "POST", "/login", "192.168.1.1")
	w2 := doReq(router, "POST", "/login", "192.168.1.1")
	w3 := doReq(router, "POST", "/login", "192.168.1.1")

	assert.Equal(t, 200, w1.Code)
	assert.Equal(t, 200, w2.Code)
	assert.Equal(t, http.StatusTooManyRequests, w3.Code)
	assert.Contains(t, w3.Body.String(), "Too many login attempts")

	// 不同 IP 互不影响
	w4 := doReq(router, "POST", "/login", "192.168.1.2")
	w5 := doReq(router, "POST", "/login", "192.168.1.2")
	assert.Equal(t, 200, w4.Code)
	assert.Equal(t, 200, w5.Code)
}
