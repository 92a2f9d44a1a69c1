package http

import (
	"github.com/recordsdesk/triage/internal/application/capacity"
	escalationServices "github.com/recordsdesk/triage/internal/application/escalation/services"
	notificationApp "github.com/recordsdesk/triage/internal/application/notification"
	sweepUsecases "github.com/recordsdesk/triage/internal/application/sweep/usecases"
	domainNotification "github.com/recordsdesk/triage/internal/domain/notification"
	"github.com/recordsdesk/triage/internal/infrastructure/permission"
	"github.com/recordsdesk/triage/internal/infrastructure/pubsub"
	"github.com/recordsdesk/triage/internal/infrastructure/ratelimit"
	"github.com/recordsdesk/triage/internal/infrastructure/services"
	"github.com/recordsdesk/triage/internal/shared/db"
	"github.com/recordsdesk/triage/internal/shared/services/markdown"
)

// allServices holds the application and infrastructure services shared by use cases.
type allServices struct {
	txManager    *db.TransactionManager
	tracker      *capacity.Tracker
	resolver     *escalationServices.ChainResolver
	notifier     *notificationApp.Service
	renderer     markdown.Renderer
	healthScorer sweepUsecases.HealthScorer
	enforcer     *permission.Enforcer
	rateLimiter  ratelimit.RateLimiter
}

func newServices(c *Container) (*allServices, error) {
	enforcer, err := permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return nil, err
	}

	var publisher domainNotification.Publisher
	var limiter ratelimit.RateLimiter
	if c.redis != nil {
		publisher = pubsub.NewRedisNotificationBus(c.redis, c.log)
		limiter = ratelimit.NewRedisRateLimiter(c.redis, c.clock)
	} else {
		c.log.Warnw("redis not configured, notification intents are stored but not published")
	}

	var healthScorer sweepUsecases.HealthScorer = services.NopHealthScorer{}
	if c.cfg.Sweep.HealthScoreURL != "" {
		healthScorer = services.NewHealthScoreClient(services.HealthScoreConfig{
			BaseURL:       c.cfg.Sweep.HealthScoreURL,
			Timeout:       c.cfg.Sweep.HealthScoreTimeout,
			BreakerTrips:  c.cfg.Sweep.HealthScoreBreakerTrips,
			BreakerWindow: c.cfg.Sweep.HealthScoreBreakerWindow,
		}, c.log.Named("health-score"))
	}

	return &allServices{
		txManager:    db.NewTransactionManager(c.db),
		tracker:      capacity.NewTracker(c.repos.staffRepo, c.repos.assignmentRepo, c.repos.auditRepo, c.clock, c.log),
		resolver:     escalationServices.NewChainResolver(c.repos.staffRepo, c.log),
		notifier:     notificationApp.NewService(c.repos.intentRepo, publisher, c.recorder, c.log),
		renderer:     markdown.NewRenderer(),
		healthScorer: healthScorer,
		enforcer:     enforcer,
		rateLimiter:  limiter,
	}, nil
}

// retryPolicy applies the configured conflict-retry bounds over the defaults.
func (c *Container) retryPolicy() db.RetryPolicy {
	policy := db.DefaultRetryPolicy()
	if c.cfg.Engine.ConflictRetryMaxElapsed > 0 {
		policy.MaxElapsed = c.cfg.Engine.ConflictRetryMaxElapsed
	}
	if c.cfg.Engine.ConflictRetryMaxTries > 0 {
		policy.MaxTries = c.cfg.Engine.ConflictRetryMaxTries
	}
	return policy
}

func (c *Container) rateLimitConfig() ratelimit.RateLimitConfig {
	return ratelimit.RateLimitConfig{
		Limit:  c.cfg.RateLimit.Limit,
		Window: c.cfg.RateLimit.Window,
	}
}
