package sla

import (
	"context"

	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
)

// Repository is read-mostly: the engine only reads, seeding and operators write.
// Get returns (nil, nil) when the pair is not configured.
type Repository interface {
	Get(ctx context.Context, workItemType vo.WorkItemType, priority vo.Priority) (*Config, error)
	List(ctx context.Context) ([]*Config, error)
	Upsert(ctx context.Context, c *Config) error
}
