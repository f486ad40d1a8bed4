package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expenses/config"
	"expenses/logger"
	"expenses/middleware"
	"expenses/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Mode:           gin.TestMode,
			FrontendURL:    "http://localhost:3000",
			APIBaseURL:     "http://127.0.0.1:1/api",
			BodyLimitMB:    1,
			TrustedProxies: []string{"127.0.0.1", "::1"},
		},
		JWT:       config.JWTConfig{Secret: "router-test-secret", ExpireTime: time.Hour},
		RateLimit: config.RateLimitConfig{MaxRequests: 100, Window: time.Minute, LoginPerMinute: 10},
	}
}

func setup(t *testing.T, cfg *config.Config, ping func(context.Context) error) *gin.Engine {
	middleware.InitJWT(cfg)
	r, err := SetupRouter(cfg, Deps{
		Store: &repository.Store{Ping: ping},
		Log:   logger.Nop(),
	})
	require.NoError(t, err)
	return r
}

func serve(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := setup(t, testConfig(), func(context.Context) error { return nil })

	w := serve(r, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestHealth_StoreDown(t *testing.T) {
	r := setup(t, testConfig(), func(context.Context) error { return errors.New("down") })

	w := serve(r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCategories_Public(t *testing.T) {
	r := setup(t, testConfig(), nil)

	w := serve(r, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Entertainment")
}

func TestExpenses_RequireToken(t *testing.T) {
	r := setup(t, testConfig(), nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/expenses"},
		{http.MethodPost, "/api/expenses"},
		{http.MethodGet, "/api/expenses/stats"},
		{http.MethodGet, "/api/expenses/abc"},
		{http.MethodPatch, "/api/expenses/abc"},
		{http.MethodDelete, "/api/expenses/abc"},
		{http.MethodGet, "/api/auth/me"},
	} {
		w := serve(r, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		assert.JSONEq(t, `{"error":"No token, authorization denied"}`, w.Body.String(), tc.path)
	}
}

func TestRateLimit_Exceeded(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.MaxRequests = 2
	r := setup(t, cfg, nil)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/categories", nil).Code)
	}
	w := serve(r, http.MethodGet, "/api/categories", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func serveFrom(r http.Handler, remoteAddr, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_IgnoresSpoofedForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.MaxRequests = 2
	r := setup(t, cfg, nil)

	// 非可信来源每次换一个 X-Forwarded-For，仍按套接字地址计数
	for i, ip := range []string{"198.51.100.1", "198.51.100.2"} {
		w := serveFrom(r, "192.0.2.1:1234", "/api/categories", map[string]string{"X-Forwarded-For": ip, "X-Real-IP": ip})
		assert.Equal(t, http.StatusOK, w.Code, i)
	}
	w := serveFrom(r, "192.0.2.1:1234", "/api/categories", map[string]string{"X-Forwarded-For": "198.51.100.3"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimit_TrustedProxyForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.MaxRequests = 1
	r := setup(t, cfg, nil)

	// 可信代理转发的不同访客各自计数
	for _, ip := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		w := serveFrom(r, "127.0.0.1:5000", "/api/categories", map[string]string{"X-Forwarded-For": ip})
		assert.Equal(t, http.StatusOK, w.Code, ip)
	}
	w := serveFrom(r, "127.0.0.1:5000", "/api/categories", map[string]string{"X-Forwarded-For": "198.51.100.1"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSetupRouter_InvalidTrustedProxies(t *testing.T) {
	cfg := testConfig()
	cfg.Server.TrustedProxies = []string{"not-an-ip"}
	middleware.InitJWT(cfg)

	_, err := SetupRouter(cfg, Deps{Store: &repository.Store{}, Log: logger.Nop()})
	assert.Error(t, err)
}

func TestWebPages_RateLimitPerVisitor(t *testing.T) {
	// 页面通过回环地址调用自身 API
	srv := httptest.NewUnstartedServer(nil)
	cfg := testConfig()
	cfg.RateLimit.MaxRequests = 2
	cfg.Server.APIBaseURL = "http://" + srv.Listener.Addr().String() + "/api"
	r := setup(t, cfg, nil)
	srv.Config.Handler = r
	srv.Start()
	t.Cleanup(srv.Close)

	page := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		req.AddCookie(&http.Cookie{Name: "expenses_token", Value: "not-a-jwt"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	// 无效令牌：API 返回 401，页面跳转登录
	assert.Equal(t, http.StatusSeeOther, page("10.0.0.1:40000"))
	assert.Equal(t, http.StatusSeeOther, page("10.0.0.1:40001"))
	assert.Equal(t, http.StatusTooManyRequests, page("10.0.0.1:40002"))

	// 另一位访客不受影响
	assert.Equal(t, http.StatusSeeOther, page("10.0.0.2:40000"))
	assert.Equal(t, http.StatusSeeOther, page("10.0.0.2:40001"))
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := setup(t, testConfig(), nil)

	w := serve(r, http.MethodOptions, "/api/expenses", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodOptions, "/api/expenses", map[string]string{"Origin": "http://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNoRoute(t *testing.T) {
	r := setup(t, testConfig(), nil)

	w := serve(r, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/somewhere", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestPages_RedirectToLogin(t *testing.T) {
	r := setup(t, testConfig(), nil)

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = serve(r, http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/login"`)
}
