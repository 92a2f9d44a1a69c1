package staff

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recordsdesk/triage/internal/application/capacity"
	"github.com/recordsdesk/triage/internal/application/staff/usecases"
	"github.com/recordsdesk/triage/internal/interfaces/http/middleware"
	"github.com/recordsdesk/triage/internal/shared/logger"
	"github.com/recordsdesk/triage/internal/shared/utils"
)

// LoadReader and Reconciler are satisfied by capacity.Tracker.
type LoadReader interface {
	CurrentLoad(ctx context.Context, userID uint) (*capacity.Load, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, userID uint, actorID *uint) (*capacity.ReconcileResult, error)
}

type UpsertProfileRequest struct {
	UnitID          string `json:"unit_id" validate:"notblank,max=64"`
	Role            string `json:"role" validate:"required,oneof=staff supervisor admin"`
	WIPLimit        int    `json:"wip_limit" validate:"gte=0"`
	EscalationChain []uint `json:"escalation_chain"`
	Active          *bool  `json:"active"`
}

type Handler struct {
	upsertUC   usecases.UpsertProfileExecutor
	getUC      usecases.GetProfileExecutor
	loads      LoadReader
	reconciler Reconciler
	logger     logger.Interface
}

func NewHandler(
	upsertUC usecases.UpsertProfileExecutor,
	getUC usecases.GetProfileExecutor,
	loads LoadReader,
	reconciler Reconciler,
	logger logger.Interface,
) *Handler {
	return &Handler{
		upsertUC:   upsertUC,
		getUC:      getUC,
		loads:      loads,
		reconciler: reconciler,
		logger:     logger,
	}
}

// UpsertProfile handles PUT /staff/:id
func (h *Handler) UpsertProfile(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "staff")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpsertProfileRequest
	if err := utils.BindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for upsert staff profile", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	result, err := h.upsertUC.Execute(c.Request.Context(), usecases.UpsertProfileCommand{
		UserID:          userID,
		UnitID:          req.UnitID,
		Role:            req.Role,
		WIPLimit:        req.WIPLimit,
		EscalationChain: req.EscalationChain,
		Active:          active,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Staff profile saved", result)
}

// GetProfile handles GET /staff/:id
func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "staff")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetLoad handles GET /staff/:id/load
func (h *Handler) GetLoad(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "staff")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.loads.CurrentLoad(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Reconcile handles POST /staff/:id/reconcile
func (h *Handler) Reconcile(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "staff")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var actorID *uint
	if id, ok := middleware.CurrentUserID(c); ok {
		actorID = &id
	}

	result, err := h.reconciler.Reconcile(c.Request.Context(), userID, actorID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Capacity counter reconciled", result)
}
