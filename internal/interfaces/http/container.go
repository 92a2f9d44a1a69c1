package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/recordsdesk/triage/internal/application/capacity"
	sweepUsecases "github.com/recordsdesk/triage/internal/application/sweep/usecases"
	"github.com/recordsdesk/triage/internal/infrastructure/auth"
	"github.com/recordsdesk/triage/internal/infrastructure/config"
	"github.com/recordsdesk/triage/internal/infrastructure/metrics"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/seeds"
	"github.com/recordsdesk/triage/internal/infrastructure/permission"
	"github.com/recordsdesk/triage/internal/infrastructure/services"
	"github.com/recordsdesk/triage/internal/interfaces/http/middleware"
	"github.com/recordsdesk/triage/internal/shared/biztime"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// Container holds the engine's infrastructure, repositories, use cases and handlers,
// and owns their shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client
	clock  biztime.Clock

	registry *prometheus.Registry
	recorder *metrics.Recorder

	repos *repositories
	svcs  *allServices
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter
}

// NewContainer wires the engine. redisClient may be nil: notifications are then only
// persisted and rate limiting is off.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
		clock:  biztime.NowUTC,
	}

	// Section 1: Infrastructure - metrics, repositories, shared services
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Use cases
	c.initUseCases()

	// Section 3: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	c.registry = prometheus.NewRegistry()
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.recorder = metrics.NewRecorder(c.registry)

	c.repos = newRepositories(c.db, c.cfg.Engine, c.log)

	svcs, err := newServices(c)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.svcs = svcs
	return nil
}

func (c *Container) initUseCases() {
	c.ucs = newUseCases(c)
}

func (c *Container) initHandlers() {
	c.hdlrs = newHandlers(c)

	jwtSvc := auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.Issuer, c.clock)
	c.authMiddleware = middleware.NewAuthMiddleware(jwtSvc, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.svcs.enforcer, c.log)

	if c.redis != nil && c.cfg.RateLimit.Enabled {
		c.rateLimiter = middleware.NewRateLimiter(c.svcs.rateLimiter, c.rateLimitConfig(), c.log)
	} else if c.cfg.RateLimit.Enabled {
		c.log.Warnw("rate limiting enabled without redis, requests will not be limited")
	}
}

// Engine returns the configured gin engine. Call SetupRoutes first.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Sweeper exposes the overdue sweep for the scheduler and CLI.
func (c *Container) Sweeper() *sweepUsecases.SweepOverdueUseCase {
	return c.ucs.sweepOverdueUC
}

// Reconciler exposes the counter recount for the scheduler and CLI.
func (c *Container) Reconciler() *capacity.Tracker {
	return c.svcs.tracker
}

// Enforcer exposes the casbin enforcer so the caller can seed policies.
func (c *Container) Enforcer() *permission.Enforcer {
	return c.svcs.enforcer
}

// SeedSLA loads the SLA table file through the cached repository.
func (c *Container) SeedSLA(ctx context.Context, path string) (int, error) {
	return seeds.SeedSLA(ctx, c.repos.slaRepo, path, c.log)
}

// HealthScoreState reports the health-score breaker state, or "disabled".
func (c *Container) HealthScoreState() string {
	if hs, ok := c.svcs.healthScorer.(*services.HealthScoreClient); ok {
		return hs.State()
	}
	return "disabled"
}

// Shutdown releases resources owned by the container. The DB and redis clients
// belong to the caller.
func (c *Container) Shutdown() {
	if hs, ok := c.svcs.healthScorer.(*services.HealthScoreClient); ok {
		hs.Close()
	}
	c.log.Infow("container shut down")
}

func (c *Container) ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
