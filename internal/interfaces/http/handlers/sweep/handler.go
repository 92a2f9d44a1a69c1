package sweep

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/recordsdesk/triage/internal/application/sweep/usecases"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
	"github.com/recordsdesk/triage/internal/shared/utils"
)

// SweepRequest accepts both snake_case keys and the camelCase dryRun/scopeId used by
// portal callers. scopeId is a container id.
type SweepRequest struct {
	DryRun        bool    `json:"dry_run"`
	DryRunCamel   *bool   `json:"dryRun,omitempty"`
	ContainerID   *string `json:"container_id,omitempty" validate:"omitempty,notblank,max=128"`
	ScopeID       *string `json:"scopeId,omitempty" validate:"omitempty,notblank,max=128"`
	ResumeSweepID *string `json:"resume_sweep_id,omitempty" validate:"omitempty,uuid"`
}

func (r *SweepRequest) normalize() {
	if r.DryRunCamel != nil {
		r.DryRun = *r.DryRunCamel
	}
	if r.ContainerID == nil && r.ScopeID != nil {
		r.ContainerID = r.ScopeID
	}
}

type Handler struct {
	sweepUC usecases.SweepOverdueExecutor
	logger  logger.Interface
}

func NewHandler(sweepUC usecases.SweepOverdueExecutor, logger logger.Interface) *Handler {
	return &Handler{sweepUC: sweepUC, logger: logger}
}

// Sweep handles POST /overdue-sweep. Per-item notification and health-score failures are
// reported in the body with a 200.
func (h *Handler) Sweep(c *gin.Context) {
	var req SweepRequest
	if c.Request.ContentLength != 0 {
		if err := utils.BindJSON(c, &req); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}
	req.normalize()
	for _, key := range []string{"dry_run", "dryRun"} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid "+key))
			return
		}
		req.DryRun = v
	}
	for _, key := range []string{"container_id", "scopeId"} {
		if scope := c.Query(key); scope != "" {
			req.ContainerID = &scope
		}
	}
	if req.ResumeSweepID != nil && req.DryRun {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("resume_sweep_id cannot be combined with a dry run"))
		return
	}

	result, err := h.sweepUC.Execute(c.Request.Context(), usecases.SweepCommand{
		DryRun:        req.DryRun,
		ContainerID:   req.ContainerID,
		ResumeSweepID: req.ResumeSweepID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
