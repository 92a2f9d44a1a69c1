// Package notification turns engine events into persisted, de-duplicated notification
// intents and hands them to the delivery collaborator.
package notification

import (
	"context"

	"github.com/recordsdesk/triage/internal/domain/notification"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// Metrics receives delivery outcomes. A nil Metrics is allowed.
type Metrics interface {
	IntentSent(kind string)
	IntentDeduplicated(kind string)
	IntentFailed(kind string)
}

type IntentDTO struct {
	ID           uint                   `json:"id"`
	Kind         string                 `json:"kind"`
	RecipientID  uint                   `json:"recipient_id"`
	AssignmentID uint                   `json:"assignment_id"`
	EscalationID *uint                  `json:"escalation_id,omitempty"`
	ContainerID  *string                `json:"container_id,omitempty"`
	Payload      map[string]interface{} `json:"payload"`
	CreatedAt    string                 `json:"created_at"`
}

// Service persists an intent before publishing it, so a delivery outage never loses one and
// the dedupe key keeps retried sweeps from notifying twice.
type Service struct {
	repo      notification.IntentRepository
	publisher notification.Publisher
	metrics   Metrics
	logger    logger.Interface
}

func NewService(
	repo notification.IntentRepository,
	publisher notification.Publisher,
	metrics Metrics,
	logger logger.Interface,
) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Notify stores the intent and publishes it. sent is false when the dedupe key was already
// used. A publish failure is logged only: the stored intent is picked up by the delivery side.
func (s *Service) Notify(ctx context.Context, intent *notification.Intent) (sent bool, err error) {
	kind := string(intent.Kind())

	created, err := s.repo.Save(ctx, intent)
	if err != nil {
		s.logger.Errorw("failed to store notification intent",
			"kind", kind,
			"recipient_id", intent.RecipientID(),
			"assignment_id", intent.AssignmentID(),
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.IntentFailed(kind)
		}
		return false, err
	}
	if !created {
		s.logger.Debugw("notification intent already recorded", "dedupe_key", intent.DedupeKey())
		if s.metrics != nil {
			s.metrics.IntentDeduplicated(kind)
		}
		return false, nil
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, intent); err != nil {
			s.logger.Warnw("failed to publish notification intent",
				"intent_id", intent.ID(),
				"dedupe_key", intent.DedupeKey(),
				"error", err,
			)
		}
	}
	if s.metrics != nil {
		s.metrics.IntentSent(kind)
	}
	return true, nil
}

func (s *Service) ListForRecipient(ctx context.Context, recipientID uint, limit int) ([]*IntentDTO, error) {
	if recipientID == 0 {
		return nil, apperrors.NewValidationError("recipient ID is required")
	}
	intents, err := s.repo.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		s.logger.Errorw("failed to list notification intents", "recipient_id", recipientID, "error", err)
		return nil, apperrors.NewInternalError("failed to list notifications")
	}

	out := make([]*IntentDTO, 0, len(intents))
	for _, i := range intents {
		out = append(out, &IntentDTO{
			ID:           i.ID(),
			Kind:         string(i.Kind()),
			RecipientID:  i.RecipientID(),
			AssignmentID: i.AssignmentID(),
			EscalationID: i.EscalationID(),
			ContainerID:  i.ContainerID(),
			Payload:      i.Payload(),
			CreatedAt:    i.CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out, nil
}
