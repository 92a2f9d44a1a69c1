package escalation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recordsdesk/triage/internal/application/escalation/usecases"
	"github.com/recordsdesk/triage/internal/interfaces/http/middleware"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
	"github.com/recordsdesk/triage/internal/shared/utils"
)

type EscalateRequest struct {
	AssignmentID uint    `json:"assignment_id" validate:"required,gt=0"`
	Reason       string  `json:"reason" validate:"notblank"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=4000"`
}

type ResolveRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=4000"`
}

type Handler struct {
	escalateUC    usecases.EscalateExecutor
	acknowledgeUC usecases.AcknowledgeEscalationExecutor
	resolveUC     usecases.ResolveEscalationExecutor
	historyUC     usecases.EscalationHistoryExecutor
	pendingUC     usecases.PendingEscalationsExecutor
	logger        logger.Interface
}

func NewHandler(
	escalateUC usecases.EscalateExecutor,
	acknowledgeUC usecases.AcknowledgeEscalationExecutor,
	resolveUC usecases.ResolveEscalationExecutor,
	historyUC usecases.EscalationHistoryExecutor,
	pendingUC usecases.PendingEscalationsExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		escalateUC:    escalateUC,
		acknowledgeUC: acknowledgeUC,
		resolveUC:     resolveUC,
		historyUC:     historyUC,
		pendingUC:     pendingUC,
		logger:        logger,
	}
}

// Escalate handles POST /escalations
func (h *Handler) Escalate(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, apperrors.NewUnauthorizedError("user not authenticated"))
		return
	}

	var req EscalateRequest
	if err := utils.BindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for escalate", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.escalateUC.Execute(c.Request.Context(), usecases.EscalateCommand{
		AssignmentID: req.AssignmentID,
		Reason:       req.Reason,
		Notes:        req.Notes,
		ActorID:      &actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Escalation raised")
}

// Acknowledge handles POST /escalations/:id/acknowledge
func (h *Handler) Acknowledge(c *gin.Context) {
	id, userID, ok := h.eventAndCaller(c)
	if !ok {
		return
	}

	result, err := h.acknowledgeUC.Execute(c.Request.Context(), usecases.AcknowledgeCommand{
		EscalationID: id,
		UserID:       userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Escalation acknowledged", result)
}

// Resolve handles POST /escalations/:id/resolve
func (h *Handler) Resolve(c *gin.Context) {
	id, userID, ok := h.eventAndCaller(c)
	if !ok {
		return
	}

	var req ResolveRequest
	if c.Request.ContentLength != 0 {
		if err := utils.BindJSON(c, &req); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	result, err := h.resolveUC.Execute(c.Request.Context(), usecases.ResolveCommand{
		EscalationID: id,
		UserID:       userID,
		Notes:        req.Notes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Escalation resolved", result)
}

// History handles GET /escalations?assignment_id=
func (h *Handler) History(c *gin.Context) {
	assignmentID, ok, err := utils.ParseUintQuery(c, "assignment_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if !ok {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("assignment_id is required"))
		return
	}

	result, err := h.historyUC.Execute(c.Request.Context(), usecases.HistoryQuery{AssignmentID: assignmentID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Pending handles GET /escalations/pending?user_id=, defaulting to the caller.
func (h *Handler) Pending(c *gin.Context) {
	userID, ok, err := utils.ParseUintQuery(c, "user_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if !ok {
		userID, ok = middleware.CurrentUserID(c)
		if !ok {
			utils.ErrorResponseWithError(c, apperrors.NewUnauthorizedError("user not authenticated"))
			return
		}
	}

	result, err := h.pendingUC.Execute(c.Request.Context(), usecases.PendingQuery{UserID: userID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *Handler) eventAndCaller(c *gin.Context) (uint, uint, bool) {
	id, err := utils.ParseUintParam(c, "id", "escalation")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, 0, false
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, apperrors.NewUnauthorizedError("user not authenticated"))
		return 0, 0, false
	}
	return id, userID, true
}
