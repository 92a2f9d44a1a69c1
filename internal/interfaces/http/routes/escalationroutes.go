package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/recordsdesk/triage/internal/infrastructure/permission"
	escalationhandlers "github.com/recordsdesk/triage/internal/interfaces/http/handlers/escalation"
	"github.com/recordsdesk/triage/internal/interfaces/http/middleware"
)

type EscalationRouteConfig struct {
	Handler              *escalationhandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	RateLimit            gin.HandlerFunc
}

func SetupEscalationRoutes(engine *gin.Engine, config *EscalationRouteConfig) {
	perm := config.PermissionMiddleware.RequirePermission

	escalations := engine.Group("/escalations")
	escalations.Use(config.AuthMiddleware.RequireAuth())
	{
		escalations.POST("",
			withOptional(config.RateLimit, perm(permission.ResourceEscalation, permission.ActionCreate), config.Handler.Escalate)...)
		escalations.GET("",
			perm(permission.ResourceEscalation, permission.ActionRead),
			config.Handler.History)
		escalations.GET("/pending",
			perm(permission.ResourceEscalation, permission.ActionRead),
			config.Handler.Pending)

		// Only the recipient may act; the use cases enforce it.
		escalations.POST("/:id/acknowledge",
			perm(permission.ResourceEscalation, permission.ActionAcknowledge),
			config.Handler.Acknowledge)
		escalations.POST("/:id/resolve",
			perm(permission.ResourceEscalation, permission.ActionAcknowledge),
			config.Handler.Resolve)
	}
}
