package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is either "mysql" or "sqlite".
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RateLimitConfig configures the fixed-window request limiter on mutating endpoints.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// EngineConfig holds the assignment and escalation engine tunables.
type EngineConfig struct {
	ManualOverrideMinReason int           `mapstructure:"manual_override_min_reason"`
	EscalationStormLimit    int           `mapstructure:"escalation_storm_limit"`
	EscalationStormWindow   time.Duration `mapstructure:"escalation_storm_window"`
	ConflictRetryMaxElapsed time.Duration `mapstructure:"conflict_retry_max_elapsed"`
	ConflictRetryMaxTries   uint          `mapstructure:"conflict_retry_max_tries"`
	SLACacheSize            int           `mapstructure:"sla_cache_size"`
	SLACacheTTL             time.Duration `mapstructure:"sla_cache_ttl"`
	SLASeedPath             string        `mapstructure:"sla_seed_path"`
}

// SweepConfig configures the overdue sweeper and its downstream collaborators.
type SweepConfig struct {
	Interval                 time.Duration `mapstructure:"interval"`
	Timeout                  time.Duration `mapstructure:"timeout"`
	ReconcileInterval        time.Duration `mapstructure:"reconcile_interval"`
	HealthScoreURL           string        `mapstructure:"health_score_url"`
	HealthScoreConcurrency   int           `mapstructure:"health_score_concurrency"`
	HealthScoreTimeout       time.Duration `mapstructure:"health_score_timeout"`
	HealthScoreBreakerTrips  uint32        `mapstructure:"health_score_breaker_trips"`
	HealthScoreBreakerWindow time.Duration `mapstructure:"health_score_breaker_window"`
}
