// Package services holds clients for downstream systems the engine calls.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/recordsdesk/triage/internal/shared/logger"
)

const (
	defaultHealthScoreTimeout = 5 * time.Second
	defaultBreakerTrips       = 5
	defaultBreakerWindow      = 30 * time.Second
)

// HealthScoreConfig configures the client for the container health-score service.
type HealthScoreConfig struct {
	BaseURL string
	Timeout time.Duration
	// BreakerTrips consecutive failures open the breaker for BreakerWindow.
	BreakerTrips  uint32
	BreakerWindow time.Duration
}

// HealthScoreClient asks the scoring service to recompute a container. Calls go through a
// circuit breaker so a dead downstream fails fast instead of stalling every sweep.
type HealthScoreClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	inflight   singleflight.Group
	logger     logger.Interface
}

func NewHealthScoreClient(config HealthScoreConfig, log logger.Interface) *HealthScoreClient {
	if config.Timeout <= 0 {
		config.Timeout = defaultHealthScoreTimeout
	}
	if config.BreakerTrips == 0 {
		config.BreakerTrips = defaultBreakerTrips
	}
	if config.BreakerWindow <= 0 {
		config.BreakerWindow = defaultBreakerWindow
	}

	trips := config.BreakerTrips
	settings := gobreaker.Settings{
		Name:        "health-score",
		MaxRequests: 1,
		Interval:    config.BreakerWindow,
		Timeout:     config.BreakerWindow,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("circuit breaker state changed",
				"dependency", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &HealthScoreClient{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     log,
	}
}

// Recompute requests a fresh score for containerID. Concurrent calls for the same container
// share one request.
func (c *HealthScoreClient) Recompute(ctx context.Context, containerID string) error {
	_, err, _ := c.inflight.Do(containerID, func() (any, error) {
		return c.breaker.Execute(func() (any, error) {
			return nil, c.post(ctx, containerID)
		})
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("health-score service unavailable: %w", err)
	}
	return err
}

// State exposes the breaker state for health reporting.
func (c *HealthScoreClient) State() string {
	return c.breaker.State().String()
}

func (c *HealthScoreClient) post(ctx context.Context, containerID string) error {
	endpoint := fmt.Sprintf("%s/containers/%s/recompute", c.baseURL, url.PathEscape(containerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call health-score service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("health-score service returned %d for container %s", resp.StatusCode, containerID)
	}
	return nil
}

// NopHealthScorer is used when no scoring service is configured.
type NopHealthScorer struct{}

func (NopHealthScorer) Recompute(context.Context, string) error { return nil }

// Close drops idle keep-alive connections to the scoring service.
func (c *HealthScoreClient) Close() {
	c.httpClient.CloseIdleConnections()
}
