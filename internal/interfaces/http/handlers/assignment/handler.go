package assignment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recordsdesk/triage/internal/application/assignment/usecases"
	"github.com/recordsdesk/triage/internal/interfaces/http/middleware"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
	"github.com/recordsdesk/triage/internal/shared/utils"
)

type Handler struct {
	assignUC   usecases.AssignWorkItemExecutor
	overrideUC usecases.ManualOverrideExecutor
	getUC      usecases.GetAssignmentExecutor
	listUC     usecases.ListAssignmentsExecutor
	startUC    usecases.StartAssignmentExecutor
	completeUC usecases.CompleteAssignmentExecutor
	reassignUC usecases.ReassignExecutor
	logger     logger.Interface
}

func NewHandler(
	assignUC usecases.AssignWorkItemExecutor,
	overrideUC usecases.ManualOverrideExecutor,
	getUC usecases.GetAssignmentExecutor,
	listUC usecases.ListAssignmentsExecutor,
	startUC usecases.StartAssignmentExecutor,
	completeUC usecases.CompleteAssignmentExecutor,
	reassignUC usecases.ReassignExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		assignUC:   assignUC,
		overrideUC: overrideUC,
		getUC:      getUC,
		listUC:     listUC,
		startUC:    startUC,
		completeUC: completeUC,
		reassignUC: reassignUC,
		logger:     logger,
	}
}

// CreateAssignment handles POST /assignments
func (h *Handler) CreateAssignment(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := utils.BindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create assignment", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.assignUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Assignment created successfully")
}

// ManualOverride handles POST /assignments/manual-override
func (h *Handler) ManualOverride(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, apperrors.NewUnauthorizedError("user not authenticated"))
		return
	}

	var req ManualOverrideRequest
	if err := utils.BindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for manual override", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.overrideUC.Execute(c.Request.Context(), req.ToCommand(actorID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Assignment overridden successfully", result)
}

// GetAssignment handles GET /assignments/:id
func (h *Handler) GetAssignment(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id", "assignment")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetAssignmentQuery{AssignmentID: id})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListAssignments handles GET /assignments
func (h *Handler) ListAssignments(c *gin.Context) {
	assigneeID, hasAssignee, err := utils.ParseUintQuery(c, "assignee_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	p := utils.ParsePagination(c)
	query := usecases.ListAssignmentsQuery{
		Statuses: c.QueryArray("status"),
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	if hasAssignee {
		query.AssigneeID = &assigneeID
	}
	if v := c.Query("container_id"); v != "" {
		query.ContainerID = &v
	}
	if v := c.Query("work_item_id"); v != "" {
		query.WorkItemID = &v
	}

	result, err := h.listUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// StartAssignment handles POST /assignments/:id/start
func (h *Handler) StartAssignment(c *gin.Context) {
	cmd, ok := h.transitionCommand(c)
	if !ok {
		return
	}

	result, err := h.startUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Assignment started", result)
}

// CompleteAssignment handles POST /assignments/:id/complete
func (h *Handler) CompleteAssignment(c *gin.Context) {
	cmd, ok := h.transitionCommand(c)
	if !ok {
		return
	}

	result, err := h.completeUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Assignment completed", result)
}

// Reassign handles POST /assignments/:id/reassign
func (h *Handler) Reassign(c *gin.Context) {
	cmd, ok := h.transitionCommand(c)
	if !ok {
		return
	}

	var req ReassignRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.reassignUC.Execute(c.Request.Context(), usecases.ReassignCommand{
		AssignmentID:  cmd.AssignmentID,
		NewAssigneeID: req.NewAssigneeID,
		ActorID:       cmd.ActorID,
		Reason:        req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Assignment reassigned successfully", result)
}

func (h *Handler) transitionCommand(c *gin.Context) (usecases.TransitionCommand, bool) {
	id, err := utils.ParseUintParam(c, "id", "assignment")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return usecases.TransitionCommand{}, false
	}
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, apperrors.NewUnauthorizedError("user not authenticated"))
		return usecases.TransitionCommand{}, false
	}
	return usecases.TransitionCommand{AssignmentID: id, ActorID: actorID}, true
}
