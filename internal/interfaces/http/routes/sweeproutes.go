package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/recordsdesk/triage/internal/infrastructure/permission"
	sweephandlers "github.com/recordsdesk/triage/internal/interfaces/http/handlers/sweep"
	"github.com/recordsdesk/triage/internal/interfaces/http/middleware"
)

type SweepRouteConfig struct {
	Handler              *sweephandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupSweepRoutes(engine *gin.Engine, config *SweepRouteConfig) {
	engine.POST("/overdue-sweep",
		config.AuthMiddleware.RequireAuth(),
		config.PermissionMiddleware.RequirePermission(permission.ResourceSweep, permission.ActionRun),
		config.Handler.Sweep)
}
