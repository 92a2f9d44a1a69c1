package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recordsdesk/triage/internal/interfaces/http/middleware"
	"github.com/recordsdesk/triage/internal/interfaces/http/routes"
	"github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/utils"
)

// SetupRoutes registers the global middleware chain and every route group.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.CustomLogger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.Metrics(c.recorder))

	c.engine.GET("/health", c.health)
	c.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})))

	routes.SetupAssignmentRoutes(c.engine, &routes.AssignmentRouteConfig{
		Handler:              c.hdlrs.assignmentHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
		RateLimit:            c.limit("assignments"),
	})

	routes.SetupEscalationRoutes(c.engine, &routes.EscalationRouteConfig{
		Handler:              c.hdlrs.escalationHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
		RateLimit:            c.limit("escalations"),
	})

	routes.SetupStaffRoutes(c.engine, &routes.StaffRouteConfig{
		Handler:              c.hdlrs.staffHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupSweepRoutes(c.engine, &routes.SweepRouteConfig{
		Handler:              c.hdlrs.sweepHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	c.engine.NoRoute(func(ctx *gin.Context) {
		utils.ErrorResponseWithError(ctx, errors.NewNotFoundError("route not found"))
	})
}

// limit returns the rate-limit middleware for scope, or nil when limiting is off.
func (c *Container) limit(scope string) gin.HandlerFunc {
	if c.rateLimiter == nil {
		return nil
	}
	return c.rateLimiter.Limit(scope)
}

func (c *Container) health(ctx *gin.Context) {
	status := http.StatusOK
	database := "ok"
	if err := c.ping(ctx.Request.Context()); err != nil {
		c.log.Warnw("health check database ping failed", "error", err)
		status = http.StatusServiceUnavailable
		database = "unavailable"
	}

	ctx.JSON(status, gin.H{
		"status":       http.StatusText(status),
		"database":     database,
		"health_score": c.HealthScoreState(),
	})
}
