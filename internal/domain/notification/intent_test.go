package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 1, 1, 5, 0, 0, 0, time.UTC)

func TestNewIntent_DedupeKeys(t *testing.T) {
	overdue, err := NewIntent(KindAssignmentOverdue, 7, 10, nil, nil, nil, at)
	require.NoError(t, err)
	assert.Equal(t, "assignment_overdue:assignment:10:user:7", overdue.DedupeKey())

	escID := uint(3)
	received, err := NewIntent(KindEscalationReceived, 2, 10, &escID, nil, nil, at)
	require.NoError(t, err)
	assert.Equal(t, "escalation_received:escalation:3:user:2", received.DedupeKey())

	again, err := NewIntent(KindAssignmentOverdue, 7, 10, nil, nil, map[string]interface{}{"x": 1}, at.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, overdue.DedupeKey(), again.DedupeKey())
}

func TestNewIntent_Validation(t *testing.T) {
	_, err := NewIntent("sms", 7, 10, nil, nil, nil, at)
	assert.Error(t, err)
	_, err = NewIntent(KindAssignmentOverdue, 0, 10, nil, nil, nil, at)
	assert.Error(t, err)
	_, err = NewIntent(KindEscalationRaised, 7, 10, nil, nil, nil, at)
	assert.Error(t, err)
}
