package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/recordsdesk/triage/internal/infrastructure/permission"
	assignmenthandlers "github.com/recordsdesk/triage/internal/interfaces/http/handlers/assignment"
	"github.com/recordsdesk/triage/internal/interfaces/http/middleware"
)

type AssignmentRouteConfig struct {
	Handler              *assignmenthandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	// RateLimit is nil when rate limiting is disabled.
	RateLimit gin.HandlerFunc
}

func SetupAssignmentRoutes(engine *gin.Engine, config *AssignmentRouteConfig) {
	perm := config.PermissionMiddleware.RequirePermission

	assignments := engine.Group("/assignments")
	assignments.Use(config.AuthMiddleware.RequireAuth())
	{
		// Specific paths before /:id.
		assignments.POST("",
			withOptional(config.RateLimit, perm(permission.ResourceAssignment, permission.ActionCreate), config.Handler.CreateAssignment)...)
		assignments.GET("",
			perm(permission.ResourceAssignment, permission.ActionRead),
			config.Handler.ListAssignments)
		assignments.POST("/manual-override",
			withOptional(config.RateLimit, perm(permission.ResourceAssignment, permission.ActionOverride), config.Handler.ManualOverride)...)

		// Assignee checks happen in the use cases.
		assignments.POST("/:id/start",
			perm(permission.ResourceAssignment, permission.ActionTransition),
			config.Handler.StartAssignment)
		assignments.POST("/:id/complete",
			perm(permission.ResourceAssignment, permission.ActionTransition),
			config.Handler.CompleteAssignment)
		assignments.POST("/:id/reassign",
			perm(permission.ResourceAssignment, permission.ActionReassign),
			config.Handler.Reassign)

		assignments.GET("/:id",
			perm(permission.ResourceAssignment, permission.ActionRead),
			config.Handler.GetAssignment)
	}
}

// withOptional prepends h when it is set.
func withOptional(h gin.HandlerFunc, rest ...gin.HandlerFunc) []gin.HandlerFunc {
	if h == nil {
		return rest
	}
	return append([]gin.HandlerFunc{h}, rest...)
}
