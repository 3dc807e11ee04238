package routes

import (
	"rfp_automation/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

func addPingRoutes(rg *gin.RouterGroup, health *handlers.HealthHandler) {
	rg.GET("/ping", health.Ping)
}
