package router

import (
	"fmt"
	"net/http"
	"strings"

	"expenses/api"
	"expenses/config"
	_ "expenses/docs"
	"expenses/logger"
	"expenses/middleware"
	"expenses/repository"
	"expenses/service"
	"expenses/web"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps 路由依赖
type Deps struct {
	Store *repository.Store
	Log   *logger.Logger
	// Redis 为 nil 时限流计数保存在进程内
	Redis redis.UniversalClient
	// Mailer 为 nil 时不发送欢迎邮件
	Mailer service.WelcomeSender
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	// 设置运行模式
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	// 只采信可信代理转发的客户端地址，否则限流键可被伪造
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log.WithComponent(logger.ComponentHTTP)))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware(cfg.Server.FrontendURL))
	r.Use(middleware.BodyLimit(int64(cfg.Server.BodyLimitMB) << 20))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	expenseSvc := service.NewExpenseService(deps.Store.Expenses, log)
	authSvc := service.NewAuthService(deps.Store.Users, middleware.IssueToken, deps.Mailer, log)
	expenseHandler := api.NewExpenseHandler(expenseSvc, log)
	authHandler := api.NewAuthHandler(authSvc, log)

	var store middleware.RateLimitStore = middleware.NewMemoryStore()
	if deps.Redis != nil {
		store = middleware.NewRedisStore(deps.Redis)
	}

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.RateLimit(store, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, log))
	{
		// 健康检查与类别（无需登录）
		apiGroup.GET("/health", api.Health(deps.Store.Ping))
		apiGroup.GET("/categories", expenseHandler.GetCategories)

		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(cfg.RateLimit.LoginPerMinute), authHandler.Login)
			auth.GET("/me", middleware.JWTAuth(), authHandler.Me)
		}

		// 需要 JWT 认证的路由
		expenses := apiGroup.Group("/expenses")
		expenses.Use(middleware.JWTAuth())
		{
			expenses.POST("", expenseHandler.Create)
			expenses.GET("", expenseHandler.List)
			expenses.GET("/stats", expenseHandler.Stats)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.PATCH("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}
	}

	// 页面
	pages, err := web.NewHandler(web.Config{
		APIBaseURL:    cfg.Server.APIBaseURL,
		SecureCookies: cfg.IsRelease(),
		SessionTTL:    cfg.JWT.ExpireTime,
	}, log)
	if err != nil {
		return nil, err
	}
	pages.Register(r)

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			api.NotFound(c, "Route not found")
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	})

	return r, nil
}
