// Package bootstrap brings up the shared runtime for every CLI command: config, logger,
// database and the optional redis client.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/recordsdesk/triage/internal/infrastructure/config"
	"github.com/recordsdesk/triage/internal/infrastructure/database"
	"github.com/recordsdesk/triage/internal/infrastructure/migration"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// Options selects the environment and what to bring up.
type Options struct {
	Env        string
	ConfigPath string
	Debug      bool
	// Redis connects to redis when a host is configured.
	Redis bool
}

// Runtime is the initialized environment. Close releases it.
type Runtime struct {
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB
	Redis  *redis.Client
}

func Init(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.Env, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, opts.Debug); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rt := &Runtime{Config: cfg, Log: log, DB: database.Get()}

	if opts.Redis && cfg.Redis.Host != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			_ = database.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
		}
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
		rt.Redis = client
	}

	return rt, nil
}

// Migrate applies the schema. autoMigrate selects gorm AutoMigrate over the goose scripts.
func (rt *Runtime) Migrate(autoMigrate bool) error {
	manager, err := migration.NewManager(rt.Config.Database.Driver, autoMigrate, rt.Log)
	if err != nil {
		return err
	}
	return manager.Migrate(rt.DB)
}

func (rt *Runtime) Close() {
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			rt.Log.Warnw("failed to close redis client", "error", err)
		}
	}
	if err := database.Close(); err != nil {
		rt.Log.Warnw("failed to close database", "error", err)
	}
}
