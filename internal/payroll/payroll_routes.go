package payroll

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	// bulk endpoints are heavy, batasi per user
	bulkLimiter := middleware.RateLimitByUser(rate.Limit(1), 3)

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware(), middleware.ContextLogger(zap.L().Named("payroll.http")))
	{
		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetById)
		payrolls.GET("/:id/breakdown", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetBreakdown)
		payrolls.GET("/:id/payslip/download", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.DownloadPayslip)
		if redisClient != nil {
			payrolls.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll", "create"),
				handler.Create,
			)
		} else {
			payrolls.POST("", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.Create)
		}
		payrolls.PUT("/:id", middleware.RBACAuthorize(rbacService, "payroll", "update"), handler.Update)
		payrolls.POST("/:id/recalculate", middleware.RBACAuthorize(rbacService, "payroll", "update"), handler.Recalculate)
		payrolls.POST("/:id/status", middleware.RBACAuthorize(rbacService, "payroll", "pay"), handler.TransitionStatus)
		payrolls.POST("/bulk/recalculate", bulkLimiter, middleware.RBACAuthorize(rbacService, "payroll", "update"), handler.BulkRecalculate)
		payrolls.POST("/bulk/mark-paid", bulkLimiter, middleware.RBACAuthorize(rbacService, "payroll", "pay"), handler.BulkMarkPaid)
		payrolls.DELETE("/:id", middleware.RBACAuthorize(rbacService, "payroll", "delete"), handler.Delete)
	}
}
