package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/config"
	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp wires every module onto router and returns the closers for the
// connections it opened.
func BuildApp(router *gin.Engine, cfg config.Config) ([]bootstrap.Closer, error) {
	logger := zap.L().Named("app.api")

	// 1. Setup Infrastructure
	gormDB, sqlDB, err := connectDatabase(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ConnectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	closers := []bootstrap.Closer{
		func(context.Context) error { return redisClient.Close() },
		func(context.Context) error { return sqlDB.Close() },
	}

	svc, err := buildServices(cfg, sqlDB, gormDB, redisClient, zap.L())
	if err != nil {
		return closers, err
	}

	// 2. Register Modules & Routes
	router.Use(middleware.RequestID())
	router.GET("/healthz", healthCheck(sqlDB, redisClient))
	registerModules(router, cfg, svc, redisClient)

	return closers, nil
}

func connectDatabase(cfg config.Config) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DSN(), connection.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	}, cfg.ConnectRetries)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}

func healthCheck(db *sql.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "ok"}
		status := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}

		if status != http.StatusOK {
			response.Error(c, status, apperror.CodeServiceUnavailable, "Dependency unavailable", checks)
			return
		}
		response.Success(c, status, checks, nil)
	}
}
