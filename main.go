package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"expenses/config"
	"expenses/database"
	"expenses/logger"
	"expenses/middleware"
	"expenses/router"
	"expenses/service"

	"github.com/redis/go-redis/v9"
)

// @title 记账系统 API
// @version 1.0
// @description 个人记账系统 API，支持用户注册、登录、消费记录管理与类别统计
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 5000 或 :5000")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Printf("记账系统 v%s", version)
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg := config.MustLoadConfig(configFile)

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}

	appLog := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.SetDefault(appLog)
	config.PrintConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化存储
	store, err := database.Open(ctx, cfg, appLog)
	if err != nil {
		appLog.Error("database init failed", logger.FieldError, err.Error())
		os.Exit(1)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	deps := router.Deps{
		Store:  store,
		Log:    appLog,
		Mailer: service.NewEmailService(&cfg.Email),
	}
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLog.Warn("redis unreachable, rate limit fails open", logger.FieldError, err.Error())
		}
		deps.Redis = rdb
	}

	r, err := router.SetupRouter(cfg, deps)
	if err != nil {
		appLog.Error("router init failed", logger.FieldError, err.Error())
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("server started",
			"addr", cfg.Server.Port,
			"web", "http://localhost"+cfg.Server.Port+"/",
			"swagger", "http://localhost"+cfg.Server.Port+"/swagger/index.html",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server failed", logger.FieldError, err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("graceful shutdown failed", logger.FieldError, err.Error())
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := store.Close(shutdownCtx); err != nil {
		appLog.Error("close store failed", logger.FieldError, err.Error())
	}
}
