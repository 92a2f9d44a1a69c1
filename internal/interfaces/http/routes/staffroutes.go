package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/recordsdesk/triage/internal/infrastructure/permission"
	staffhandlers "github.com/recordsdesk/triage/internal/interfaces/http/handlers/staff"
	"github.com/recordsdesk/triage/internal/interfaces/http/middleware"
)

type StaffRouteConfig struct {
	Handler              *staffhandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupStaffRoutes(engine *gin.Engine, config *StaffRouteConfig) {
	perm := config.PermissionMiddleware.RequirePermission

	staff := engine.Group("/staff")
	staff.Use(config.AuthMiddleware.RequireAuth())
	{
		staff.GET("/:id/load",
			perm(permission.ResourceStaff, permission.ActionRead),
			config.Handler.GetLoad)
		staff.POST("/:id/reconcile",
			perm(permission.ResourceStaff, permission.ActionReconcile),
			config.Handler.Reconcile)

		staff.GET("/:id",
			perm(permission.ResourceStaff, permission.ActionRead),
			config.Handler.GetProfile)
		staff.PUT("/:id",
			perm(permission.ResourceStaff, permission.ActionWrite),
			config.Handler.UpsertProfile)
	}
}
