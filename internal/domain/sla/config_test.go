package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
)

func TestNewConfig(t *testing.T) {
	c, err := NewConfig(vo.WorkItemTicket, vo.PriorityHigh, 4)
	require.NoError(t, err)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 1, 4, 0, 0, 0, time.UTC), c.Deadline(start))
	assert.Equal(t, "ticket/high", Key(c.WorkItemType(), c.Priority()))
}

func TestNewConfig_RejectsNonPositiveHours(t *testing.T) {
	_, err := NewConfig(vo.WorkItemTicket, vo.PriorityHigh, 0)
	assert.Error(t, err)
	_, err = NewConfig(vo.WorkItemTicket, vo.PriorityHigh, -3)
	assert.Error(t, err)
	_, err = NewConfig("memo", vo.PriorityHigh, 3)
	assert.Error(t, err)
}
