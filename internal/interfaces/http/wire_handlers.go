package http

import (
	assignmentHandlers "github.com/recordsdesk/triage/internal/interfaces/http/handlers/assignment"
	escalationHandlers "github.com/recordsdesk/triage/internal/interfaces/http/handlers/escalation"
	staffHandlers "github.com/recordsdesk/triage/internal/interfaces/http/handlers/staff"
	sweepHandlers "github.com/recordsdesk/triage/internal/interfaces/http/handlers/sweep"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	assignmentHandler *assignmentHandlers.Handler
	escalationHandler *escalationHandlers.Handler
	staffHandler      *staffHandlers.Handler
	sweepHandler      *sweepHandlers.Handler
}

func newHandlers(c *Container) *allHandlers {
	ucs := c.ucs
	return &allHandlers{
		assignmentHandler: assignmentHandlers.NewHandler(
			ucs.assignUC, ucs.manualOverrideUC, ucs.getAssignmentUC, ucs.listAssignmentUC,
			ucs.startUC, ucs.completeUC, ucs.reassignUC, c.log,
		),
		escalationHandler: escalationHandlers.NewHandler(
			ucs.escalateUC, ucs.acknowledgeUC, ucs.resolveUC, ucs.escalationHistoryUC, ucs.pendingUC, c.log,
		),
		staffHandler: staffHandlers.NewHandler(
			ucs.upsertProfileUC, ucs.getProfileUC, c.svcs.tracker, c.svcs.tracker, c.log,
		),
		sweepHandler: sweepHandlers.NewHandler(ucs.sweepOverdueUC, c.log),
	}
}
