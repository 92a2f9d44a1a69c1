// Package sla holds the (work item type, priority) to deadline table.
package sla

import (
	"fmt"
	"time"

	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
)

type Config struct {
	id            uint
	workItemType  vo.WorkItemType
	priority      vo.Priority
	deadlineHours int
	createdAt     time.Time
	updatedAt     time.Time
}

func NewConfig(workItemType vo.WorkItemType, priority vo.Priority, deadlineHours int) (*Config, error) {
	if !workItemType.IsValid() {
		return nil, fmt.Errorf("invalid work item type: %s", workItemType)
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", priority)
	}
	if deadlineHours <= 0 {
		return nil, fmt.Errorf("deadline hours must be positive, got %d", deadlineHours)
	}
	return &Config{workItemType: workItemType, priority: priority, deadlineHours: deadlineHours}, nil
}

func ReconstructConfig(id uint, workItemType vo.WorkItemType, priority vo.Priority, deadlineHours int, createdAt, updatedAt time.Time) *Config {
	return &Config{
		id:            id,
		workItemType:  workItemType,
		priority:      priority,
		deadlineHours: deadlineHours,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (c *Config) ID() uint                      { return c.id }
func (c *Config) WorkItemType() vo.WorkItemType { return c.workItemType }
func (c *Config) Priority() vo.Priority         { return c.priority }
func (c *Config) DeadlineHours() int            { return c.deadlineHours }
func (c *Config) CreatedAt() time.Time          { return c.createdAt }
func (c *Config) UpdatedAt() time.Time          { return c.updatedAt }

// Deadline returns start plus the configured budget.
func (c *Config) Deadline(start time.Time) time.Time {
	return start.UTC().Add(time.Duration(c.deadlineHours) * time.Hour)
}

// Key identifies a table row.
func Key(workItemType vo.WorkItemType, priority vo.Priority) string {
	return workItemType.String() + "/" + priority.String()
}
