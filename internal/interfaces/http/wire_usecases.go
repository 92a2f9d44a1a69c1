package http

import (
	assignmentUsecases "github.com/recordsdesk/triage/internal/application/assignment/usecases"
	escalationUsecases "github.com/recordsdesk/triage/internal/application/escalation/usecases"
	staffUsecases "github.com/recordsdesk/triage/internal/application/staff/usecases"
	sweepUsecases "github.com/recordsdesk/triage/internal/application/sweep/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Assignment
	assignUC         *assignmentUsecases.AssignWorkItemUseCase
	manualOverrideUC *assignmentUsecases.ManualOverrideUseCase
	reassignUC       *assignmentUsecases.ReassignUseCase
	startUC          *assignmentUsecases.StartAssignmentUseCase
	completeUC       *assignmentUsecases.CompleteAssignmentUseCase
	getAssignmentUC  *assignmentUsecases.GetAssignmentUseCase
	listAssignmentUC *assignmentUsecases.ListAssignmentsUseCase

	// Escalation
	escalateUC          *escalationUsecases.EscalateUseCase
	acknowledgeUC       *escalationUsecases.AcknowledgeEscalationUseCase
	resolveUC           *escalationUsecases.ResolveEscalationUseCase
	escalationHistoryUC *escalationUsecases.EscalationHistoryUseCase
	pendingUC           *escalationUsecases.PendingEscalationsUseCase

	// Staff
	upsertProfileUC *staffUsecases.UpsertProfileUseCase
	getProfileUC    *staffUsecases.GetProfileUseCase

	// Sweep
	sweepOverdueUC *sweepUsecases.SweepOverdueUseCase
}

func newUseCases(c *Container) *allUseCases {
	repos, svcs := c.repos, c.svcs
	retry := c.retryPolicy()

	assignUC := assignmentUsecases.NewAssignWorkItemUseCase(
		repos.assignmentRepo, repos.slaRepo, repos.auditRepo, svcs.tracker, svcs.txManager,
		assignmentUsecases.RouterConfig{
			MinOverrideReasonLen: c.cfg.Engine.ManualOverrideMinReason,
			Retry:                retry,
		},
		c.recorder, c.clock, c.log,
	)

	return &allUseCases{
		assignUC:         assignUC,
		manualOverrideUC: assignmentUsecases.NewManualOverrideUseCase(assignUC, repos.staffRepo, c.log),
		reassignUC:       assignmentUsecases.NewReassignUseCase(assignUC, repos.staffRepo, c.log),
		startUC:          assignmentUsecases.NewStartAssignmentUseCase(repos.assignmentRepo, retry, c.clock, c.log),
		completeUC: assignmentUsecases.NewCompleteAssignmentUseCase(
			repos.assignmentRepo, repos.staffRepo, svcs.tracker, svcs.txManager, retry, c.clock, c.log,
		),
		getAssignmentUC:  assignmentUsecases.NewGetAssignmentUseCase(repos.assignmentRepo, c.log),
		listAssignmentUC: assignmentUsecases.NewListAssignmentsUseCase(repos.assignmentRepo, c.log),

		escalateUC: escalationUsecases.NewEscalateUseCase(
			repos.assignmentRepo, repos.escalationRepo, repos.auditRepo, svcs.resolver, svcs.notifier,
			svcs.renderer, svcs.txManager,
			escalationUsecases.EngineConfig{
				StormLimit:  c.cfg.Engine.EscalationStormLimit,
				StormWindow: c.cfg.Engine.EscalationStormWindow,
				Retry:       retry,
			},
			c.recorder, c.clock, c.log,
		),
		acknowledgeUC: escalationUsecases.NewAcknowledgeEscalationUseCase(
			repos.escalationRepo, repos.auditRepo, svcs.renderer, retry, c.clock, c.log,
		),
		resolveUC: escalationUsecases.NewResolveEscalationUseCase(
			repos.escalationRepo, repos.auditRepo, svcs.renderer, retry, c.clock, c.log,
		),
		escalationHistoryUC: escalationUsecases.NewEscalationHistoryUseCase(
			repos.assignmentRepo, repos.escalationRepo, svcs.renderer, c.log,
		),
		pendingUC: escalationUsecases.NewPendingEscalationsUseCase(repos.escalationRepo, svcs.renderer, c.log),

		upsertProfileUC: staffUsecases.NewUpsertProfileUseCase(repos.staffRepo, retry, c.clock, c.log),
		getProfileUC:    staffUsecases.NewGetProfileUseCase(repos.staffRepo, c.log),

		sweepOverdueUC: sweepUsecases.NewSweepOverdueUseCase(
			repos.assignmentRepo, svcs.notifier, svcs.healthScorer,
			sweepUsecases.SweepConfig{HealthScoreConcurrency: c.cfg.Sweep.HealthScoreConcurrency},
			c.recorder, c.clock, c.log.Named("sweep"),
		),
	}
}
