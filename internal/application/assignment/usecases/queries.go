package usecases

import (
	"context"

	"github.com/recordsdesk/triage/internal/application/assignment/dto"
	"github.com/recordsdesk/triage/internal/domain/assignment"
	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
	"github.com/recordsdesk/triage/internal/shared/utils"
)

type GetAssignmentQuery struct {
	AssignmentID uint
}

type GetAssignmentUseCase struct {
	assignmentRepo assignment.Repository
	logger         logger.Interface
}

func NewGetAssignmentUseCase(assignmentRepo assignment.Repository, logger logger.Interface) *GetAssignmentUseCase {
	return &GetAssignmentUseCase{assignmentRepo: assignmentRepo, logger: logger}
}

func (uc *GetAssignmentUseCase) Execute(ctx context.Context, query GetAssignmentQuery) (*dto.AssignmentDTO, error) {
	if query.AssignmentID == 0 {
		return nil, apperrors.NewValidationError("assignment ID is required")
	}
	a, err := loadAssignment(ctx, uc.assignmentRepo, uc.logger, query.AssignmentID)
	if err != nil {
		return nil, err
	}
	return dto.ToAssignmentDTO(a), nil
}

type ListAssignmentsQuery struct {
	AssigneeID  *uint
	ContainerID *string
	WorkItemID  *string
	Statuses    []string
	Page        int
	PageSize    int
}

type ListAssignmentsResult struct {
	Items    []*dto.AssignmentDTO `json:"items"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

type ListAssignmentsUseCase struct {
	assignmentRepo assignment.Repository
	logger         logger.Interface
}

func NewListAssignmentsUseCase(assignmentRepo assignment.Repository, logger logger.Interface) *ListAssignmentsUseCase {
	return &ListAssignmentsUseCase{assignmentRepo: assignmentRepo, logger: logger}
}

func (uc *ListAssignmentsUseCase) Execute(ctx context.Context, query ListAssignmentsQuery) (*ListAssignmentsResult, error) {
	p := utils.ValidatePagination(query.Page, query.PageSize)

	filter := assignment.Filter{
		AssigneeID:  query.AssigneeID,
		ContainerID: query.ContainerID,
		WorkItemID:  query.WorkItemID,
		Page:        p.Page,
		PageSize:    p.PageSize,
	}
	for _, raw := range query.Statuses {
		s, err := vo.NewStatus(raw)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		filter.Statuses = append(filter.Statuses, s)
	}

	list, total, err := uc.assignmentRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list assignments", "error", err)
		return nil, apperrors.NewInternalError("failed to list assignments")
	}

	return &ListAssignmentsResult{
		Items:    dto.ToAssignmentDTOs(list),
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
