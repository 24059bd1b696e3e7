package middleware

import (
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger runs after AuthMiddleware and copies request, user and
// company ids into the request context together with a scoped logger, so
// services and repos read them through contextutil without knowing gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// RequestID middleware mungkin sudah jalan
		rid := c.GetString("request_id")
		if rid == "" {
			rid = c.GetHeader("X-Request-ID")
		}
		if !validRequestID(rid) {
			rid = uuid.New().String()
		}
		c.Header("X-Request-ID", rid)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithUserID(ctx, c.GetString("user_id_validated"))
		ctx = contextutil.WithCompanyID(ctx, c.GetString("company_id"))
		ctx = contextutil.WithLogger(ctx, logger.With(contextutil.LogFields(ctx)...))

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
