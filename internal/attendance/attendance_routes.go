package attendance

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware(), middleware.ContextLogger(zap.L().Named("attendance.http")))
	{
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetAll)
		attendances.GET("/summary/:employee_id", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.MonthlySummary)
		attendances.POST("/clock-in", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.ClockIn)
		attendances.POST("/clock-out", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.ClockOut)
		attendances.PUT("/days", middleware.RBACAuthorize(rbacService, "attendance", "update"), h.RecordDay)
		attendances.POST("/close-period", middleware.RBACAuthorize(rbacService, "attendance", "close"), h.ClosePeriod)
	}
}
