package payrollsettings

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	settings := r.Group("/payroll-settings")
	settings.Use(middleware.AuthMiddleware(), middleware.ContextLogger(zap.L().Named("payrollsettings.http")))
	{
		settings.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "payroll_settings", "read"),
			handler.Get,
		)
		settings.PUT("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "payroll_settings", "update"),
			handler.Update,
		)
	}
}
