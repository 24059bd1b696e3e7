package app

import (
	"database/sql"
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/config"
	"go-payroll/internal/employeesalary"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollsettings"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type services struct {
	rbac       rbac.Service
	settings   payrollsettings.Service
	attendance attendance.Service
	salary     employeesalary.Service
	payroll    payroll.Service
	outbox     kafka.OutboxRepository
}

// buildServices dipakai bersama oleh api, worker dan consumer.
func buildServices(
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) (services, error) {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	employeeSalaryRepo := employeesalary.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	settingsRepo := payrollsettings.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.CasbinModelPath)
	if err != nil {
		return services{}, err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Services ---
	settingsService := payrollsettings.NewService(db, settingsRepo, rdb, logger)
	attendanceService := attendance.NewService(db, attendanceRepo, outboxRepo, time.Now, logger)
	employeeSalaryService := employeesalary.NewService(db, employeeSalaryRepo, logger)
	payrollService := payroll.NewService(db, payrollRepo, payroll.Collaborators{
		Outbox:     outboxRepo,
		Settings:   settingsService,
		Attendance: attendanceService,
		Baseline:   employeeSalaryService,
		Authorizer: rbacService,
		Clock:      time.Now,
		BulkLimit:  cfg.BulkLimit,
	}, logger)

	return services{
		rbac:       rbacService,
		settings:   settingsService,
		attendance: attendanceService,
		salary:     employeeSalaryService,
		payroll:    payrollService,
		outbox:     outboxRepo,
	}, nil
}

func registerModules(router *gin.Engine, cfg config.Config, svc services, rdb *redis.Client) {
	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(svc.attendance)
	employeeSalaryHandler := employeesalary.NewHandler(svc.salary)
	payrollHandler := payroll.NewHandlerWithRedis(svc.payroll, rdb)
	settingsHandler := payrollsettings.NewHandler(svc.settings)
	rbacHandler := rbac.NewHandler(svc.rbac)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, svc.rbac)
		employeesalary.RegisterRoutes(api, employeeSalaryHandler, svc.rbac)
		payroll.RegisterRoutes(api, payrollHandler, svc.rbac, rdb)
		payrollsettings.RegisterRoutes(api, settingsHandler, svc.rbac)
		rbac.RegisterRoutes(api, rbacHandler, middleware.AuthMiddlewareWithSecret(cfg.JWTSecret))
	}
}
