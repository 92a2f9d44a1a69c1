package usecases

import (
	"context"
	"errors"

	"github.com/recordsdesk/triage/internal/application/escalation/dto"
	"github.com/recordsdesk/triage/internal/domain/assignment"
	"github.com/recordsdesk/triage/internal/domain/escalation"
	"github.com/recordsdesk/triage/internal/domain/notification"
	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/shared/db"
	"github.com/recordsdesk/triage/internal/shared/logger"
	"github.com/recordsdesk/triage/internal/shared/services/markdown"
)

// RecipientResolver picks the person an escalation goes to.
type RecipientResolver interface {
	ResolveRecipient(ctx context.Context, staffID uint) (*staff.Profile, error)
}

// Notifier stores and publishes one intent. sent is false for a duplicate.
type Notifier interface {
	Notify(ctx context.Context, intent *notification.Intent) (sent bool, err error)
}

// Metrics receives escalation outcomes. A nil Metrics is allowed.
type Metrics interface {
	EscalationCreated(reason string)
	EscalationRejected(reason string)
}

type EscalateExecutor interface {
	Execute(ctx context.Context, cmd EscalateCommand) (*dto.EscalationDTO, error)
}

type AcknowledgeEscalationExecutor interface {
	Execute(ctx context.Context, cmd AcknowledgeCommand) (*dto.EscalationDTO, error)
}

type ResolveEscalationExecutor interface {
	Execute(ctx context.Context, cmd ResolveCommand) (*dto.EscalationDTO, error)
}

type EscalationHistoryExecutor interface {
	Execute(ctx context.Context, query HistoryQuery) ([]*dto.EscalationDTO, error)
}

type PendingEscalationsExecutor interface {
	Execute(ctx context.Context, query PendingQuery) ([]*dto.EscalationDTO, error)
}

type nopMetrics struct{}

func (nopMetrics) EscalationCreated(string)  {}
func (nopMetrics) EscalationRejected(string) {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

func isVersionConflict(err error) bool {
	return errors.Is(err, escalation.ErrVersionConflict) || errors.Is(err, assignment.ErrVersionConflict)
}

func retryOnConflict[T any](ctx context.Context, policy db.RetryPolicy, op func() (T, error)) (T, error) {
	return db.RetryOnConflict(ctx, policy, isVersionConflict, nil, op)
}

// renderNotes fills NotesHTML and ResolutionNotesHTML. A render failure leaves the plain
// notes in place.
func renderNotes(d *dto.EscalationDTO, r markdown.Renderer, log logger.Interface) *dto.EscalationDTO {
	if d == nil || r == nil {
		return d
	}
	d.NotesHTML = renderOne(d.ID, d.Notes, r, log)
	d.ResolutionNotesHTML = renderOne(d.ID, d.ResolutionNotes, r, log)
	return d
}

func renderOne(id uint, notes *string, r markdown.Renderer, log logger.Interface) string {
	if notes == nil {
		return ""
	}
	html, err := r.ToHTML(*notes)
	if err != nil {
		log.Warnw("failed to render escalation notes", "escalation_id", id, "error", err)
		return ""
	}
	return html
}

func renderAll(list []*escalation.Event, r markdown.Renderer, log logger.Interface) []*dto.EscalationDTO {
	out := make([]*dto.EscalationDTO, 0, len(list))
	for _, e := range list {
		out = append(out, renderNotes(dto.ToEscalationDTO(e), r, log))
	}
	return out
}
