package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"expenses/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitStore 固定窗口计数器
// Incr 返回当前窗口内（含本次）的请求数以及窗口剩余时间
type RateLimitStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit 全局限流中间件，每 IP 每个窗口最多 max 次请求，超过返回 429
func RateLimit(store RateLimitStore, max int, window time.Duration, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent(logger.ComponentRateLimit)

	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()
		count, ttl, err := store.Incr(c.Request.Context(), key, window)
		if err != nil {
			// 计数存储不可用时放行
			log.Warn("rate limit store unavailable", logger.FieldError, err.Error())
			c.Next()
			return
		}

		remaining := int64(max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprint(max))
		c.Header("X-RateLimit-Remaining", fmt.Sprint(remaining))

		if count > int64(max) {
			c.Header("Retry-After", fmt.Sprint(int(ttl.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests from this IP, please try again later.",
			})
			return
		}
		c.Next()
	}
}

// MemoryStore 进程内计数，适用于单实例部署
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
}

type memoryWindow struct {
	count int64
	reset time.Time
}

// NewMemoryStore 创建进程内计数器
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*memoryWindow), now: time.Now}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.reset) {
		w = &memoryWindow{reset: now.Add(window)}
		s.windows[key] = w
		s.sweep(now)
	}
	w.count++
	return w.count, w.reset.Sub(now), nil
}

// sweep 清理已过期窗口
func (s *MemoryStore) sweep(now time.Time) {
	for k, w := range s.windows {
		if !now.Before(w.reset) {
			delete(s.windows, k)
		}
	}
}

// RedisStore 多实例共享计数，INCR + PEXPIRE
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore 创建 Redis 计数器
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	// 窗口内第一次请求，或键上没有过期时间
	if count == 1 || ttl < 0 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = window
	}
	return count, ttl, nil
}

// LoginRateLimit 登录接口限流中间件
// 每 IP 令牌桶，每分钟补充 perMinute 个，突发上限同为 perMinute
func LoginRateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 10
	}
	var (
		mu       sync.Mutex
		limiters = make(map[string]*loginLimiter)
	)
	every := rate.Every(time.Minute / time.Duration(perMinute))

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		l, ok := limiters[ip]
		if !ok {
			l = &loginLimiter{limiter: rate.NewLimiter(every, perMinute)}
			limiters[ip] = l
		}
		l.lastSeen = now
		// 清理长时间未出现的 IP
		for k, v := range limiters {
			if now.Sub(v.lastSeen) > 10*time.Minute {
				delete(limiters, k)
			}
		}
		allowed := l.limiter.AllowN(now, 1)
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many login attempts, please try again later.",
			})
			return
		}
		c.Next()
	}
}

type loginLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}
