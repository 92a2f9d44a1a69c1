package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusAssigned, StatusInProgress, true},
		{StatusAssigned, StatusOverdue, true},
		{StatusInProgress, StatusOverdue, true},
		{StatusOverdue, StatusCompleted, true},
		{StatusOverdue, StatusReassigned, true},
		{StatusInProgress, StatusAssigned, false},
		{StatusOverdue, StatusInProgress, false},
		{StatusCompleted, StatusAssigned, false},
		{StatusReassigned, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusClassification(t *testing.T) {
	for _, s := range ActiveStatuses() {
		assert.False(t, s.IsTerminal(), s)
	}
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusReassigned.IsTerminal())
	assert.True(t, StatusAssigned.IsSweepable())
	assert.False(t, StatusOverdue.IsSweepable())
}

func TestNewEnums(t *testing.T) {
	p, err := NewPriority("urgent")
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, p)
	_, err = NewPriority("medium")
	assert.Error(t, err)

	wt, err := NewWorkItemType("position")
	require.NoError(t, err)
	assert.Equal(t, WorkItemPosition, wt)
	_, err = NewWorkItemType("memo")
	assert.Error(t, err)

	_, err = NewStatus("closed")
	assert.Error(t, err)
}
