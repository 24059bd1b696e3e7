package rbac

import "github.com/gin-gonic/gin"

// RegisterRoutes takes the auth middleware from the caller; the middleware
// package depends on this one.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(auth)
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/permissions", handler.ListPermissions)
	}
}
