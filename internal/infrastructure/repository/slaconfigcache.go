package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	"github.com/recordsdesk/triage/internal/domain/sla"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

const (
	defaultSLACacheSize = 128
	defaultSLACacheTTL  = 5 * time.Minute
)

// CachedSLAConfigRepository fronts an sla.Repository with a size and TTL bounded LRU.
// Missing pairs are not cached so a freshly seeded row is visible on the next read.
type CachedSLAConfigRepository struct {
	inner  sla.Repository
	cache  *expirable.LRU[string, *sla.Config]
	logger logger.Interface
}

func NewCachedSLAConfigRepository(inner sla.Repository, size int, ttl time.Duration, log logger.Interface) *CachedSLAConfigRepository {
	if size <= 0 {
		size = defaultSLACacheSize
	}
	return &CachedSLAConfigRepository{
		inner:  inner,
		cache:  expirable.NewLRU[string, *sla.Config](size, nil, durationOrDefault(ttl, defaultSLACacheTTL)),
		logger: log,
	}
}

func (r *CachedSLAConfigRepository) Get(ctx context.Context, workItemType vo.WorkItemType, priority vo.Priority) (*sla.Config, error) {
	key := sla.Key(workItemType, priority)
	if cfg, ok := r.cache.Get(key); ok {
		return cfg, nil
	}

	cfg, err := r.inner.Get(ctx, workItemType, priority)
	if err != nil || cfg == nil {
		return cfg, err
	}
	r.cache.Add(key, cfg)
	return cfg, nil
}

func (r *CachedSLAConfigRepository) List(ctx context.Context) ([]*sla.Config, error) {
	return r.inner.List(ctx)
}

func (r *CachedSLAConfigRepository) Upsert(ctx context.Context, c *sla.Config) error {
	if err := r.inner.Upsert(ctx, c); err != nil {
		return err
	}
	r.cache.Remove(sla.Key(c.WorkItemType(), c.Priority()))
	r.logger.Debugw("SLA cache entry invalidated", "key", sla.Key(c.WorkItemType(), c.Priority()))
	return nil
}

var _ sla.Repository = (*CachedSLAConfigRepository)(nil)
