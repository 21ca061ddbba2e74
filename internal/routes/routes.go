package routes

import (
	"picking/internal/container"
	"picking/internal/middleware"
	"picking/internal/picklist"

	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	picklist.RegisterRoutes(router, c.PickListService, c.AuditLog, c.AuditLogs)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}
