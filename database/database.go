package database

import (
	"context"
	"fmt"
	"time"

	"expenses/config"
	"expenses/logger"
	"expenses/models"
	"expenses/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 支持的存储驱动
const (
	DriverMongo    = "mongo"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Open 按配置打开存储并完成建表/建索引
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repository.Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent(logger.ComponentStorage)

	switch cfg.Database.Driver {
	case DriverMongo:
		return openMongo(ctx, cfg, log)
	case DriverMySQL, DriverPostgres:
		return openSQL(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func openSQL(cfg *config.Config, log *logger.Logger) (*repository.Store, error) {
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required for driver %s", cfg.Database.Driver)
	}

	var dialector gorm.Dialector
	if cfg.Database.Driver == DriverPostgres {
		dialector = postgres.Open(cfg.Database.DSN)
	} else {
		dialector = mysql.Open(cfg.Database.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	store, err := prepareSQL(db)
	if err != nil {
		return nil, err
	}
	log.Info("database ready", "driver", cfg.Database.Driver)
	return store, nil
}

// prepareSQL 配置连接池并迁移，失败时关闭连接
func prepareSQL(db *gorm.DB) (*repository.Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return NewSQLStore(db), nil
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Expense{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// NewSQLStore 基于 GORM 连接组装存储
func NewSQLStore(db *gorm.DB) *repository.Store {
	return &repository.Store{
		Expenses: repository.NewGormExpenseRepository(db),
		Users:    repository.NewGormUserRepository(db),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func gormLogLevel(cfg *config.Config) gormlogger.LogLevel {
	if cfg.IsRelease() {
		return gormlogger.Warn
	}
	return gormlogger.Info
}

func openMongo(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repository.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	store, err := newMongoStore(ctx, client.Database(cfg.Database.Name), client.Disconnect)
	if err != nil {
		return nil, err
	}
	log.Info("database ready", "driver", DriverMongo, "database", cfg.Database.Name)
	return store, nil
}

// newMongoStore 建索引并组装存储，失败时断开连接
func newMongoStore(ctx context.Context, db *mongo.Database, disconnect func(context.Context) error) (*repository.Store, error) {
	expenses := repository.NewMongoExpenseRepository(db)
	users := repository.NewMongoUserRepository(db)
	if err := expenses.EnsureIndexes(ctx); err != nil {
		_ = disconnect(context.Background())
		return nil, err
	}
	if err := users.EnsureIndexes(ctx); err != nil {
		_ = disconnect(context.Background())
		return nil, err
	}

	return &repository.Store{
		Expenses: expenses,
		Users:    users,
		Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
		Close: disconnect,
	}, nil
}
