package handler

import (
	"context"
	"math"
	"strings"

	ledgerpb "github.com/ogurasousui/workload-ledger/internal/adapters/grpc/gen/ledger/v1"
	"github.com/ogurasousui/workload-ledger/internal/core/initiative"
	"github.com/ogurasousui/workload-ledger/internal/core/project"
	"github.com/ogurasousui/workload-ledger/internal/core/workload"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// LedgerGrpcHandler は LedgerService の gRPC 実装です。
type LedgerGrpcHandler struct {
	svc workload.UseCase
	ledgerpb.UnimplementedLedgerServiceServer
}

// NewLedgerGrpcHandler は LedgerGrpcHandler を生成します。
func NewLedgerGrpcHandler(svc workload.UseCase) *LedgerGrpcHandler {
	return &LedgerGrpcHandler{svc: svc}
}

// GetCapacity は社員の容量スナップショットを返します。
func (h *LedgerGrpcHandler) GetCapacity(ctx context.Context, req *ledgerpb.GetCapacityRequest) (*ledgerpb.GetCapacityResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	snap, err := h.svc.GetCapacity(ctx, workload.GetCapacityInput{EmployeeID: req.GetEmployeeId()})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &ledgerpb.GetCapacityResponse{Snapshot: toProtoSnapshot(snap)}, nil
}

// AssignToProject は社員をプロジェクトへアサインします。
func (h *LedgerGrpcHandler) AssignToProject(ctx context.Context, req *ledgerpb.AssignToProjectRequest) (*ledgerpb.AssignToProjectResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	created, err := h.svc.AssignToProject(ctx, workload.AssignToProjectInput{
		ProjectID:             req.GetProjectId(),
		EmployeeID:            req.GetEmployeeId(),
		InvolvementPercentage: int(req.GetInvolvementPercentage()),
		Role:                  req.GetRole(),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &ledgerpb.AssignToProjectResponse{Assignment: toProtoAssignment(created)}, nil
}

// UpdateAssignment はアサインの関与率・ロールを変更します。
func (h *LedgerGrpcHandler) UpdateAssignment(ctx context.Context, req *ledgerpb.UpdateAssignmentRequest) (*ledgerpb.UpdateAssignmentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var involvementPtr *int
	if req.InvolvementPercentage != nil {
		value := int(req.InvolvementPercentage.GetValue())
		involvementPtr = &value
	}

	var rolePtr *string
	if req.Role != nil {
		value := req.Role.GetValue()
		rolePtr = &value
	}

	updated, err := h.svc.UpdateAssignment(ctx, workload.UpdateAssignmentInput{
		ProjectID:             req.GetProjectId(),
		EmployeeID:            req.GetEmployeeId(),
		InvolvementPercentage: involvementPtr,
		Role:                  rolePtr,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &ledgerpb.UpdateAssignmentResponse{Assignment: toProtoAssignment(updated)}, nil
}

// RemoveAssignment はアサインを解除します。
func (h *LedgerGrpcHandler) RemoveAssignment(ctx context.Context, req *ledgerpb.RemoveAssignmentRequest) (*ledgerpb.RemoveAssignmentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.RemoveAssignment(ctx, workload.RemoveAssignmentInput{
		ProjectID:  req.GetProjectId(),
		EmployeeID: req.GetEmployeeId(),
	}); err != nil {
		return nil, toStatusError(err)
	}

	return &ledgerpb.RemoveAssignmentResponse{}, nil
}

// AssignInitiative は Over & Beyond 施策を社員へ割り当てます。
func (h *LedgerGrpcHandler) AssignInitiative(ctx context.Context, req *ledgerpb.AssignInitiativeRequest) (*ledgerpb.AssignInitiativeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	assigned, err := h.svc.AssignInitiative(ctx, workload.AssignInitiativeInput{
		InitiativeID:       req.GetInitiativeId(),
		EmployeeID:         req.GetEmployeeId(),
		WorkloadPercentage: int(req.GetWorkloadPercentage()),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &ledgerpb.AssignInitiativeResponse{Initiative: toProtoInitiative(assigned)}, nil
}

// UnassignInitiative は施策の割り当てを解除します。
func (h *LedgerGrpcHandler) UnassignInitiative(ctx context.Context, req *ledgerpb.UnassignInitiativeRequest) (*ledgerpb.UnassignInitiativeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	unassigned, err := h.svc.UnassignInitiative(ctx, workload.UnassignInitiativeInput{
		InitiativeID: req.GetInitiativeId(),
		EmployeeID:   req.GetEmployeeId(),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &ledgerpb.UnassignInitiativeResponse{Initiative: toProtoInitiative(unassigned)}, nil
}

// EvaluateProject はプロジェクトの健全性を評価します。
func (h *LedgerGrpcHandler) EvaluateProject(ctx context.Context, req *ledgerpb.EvaluateProjectRequest) (*ledgerpb.EvaluateProjectResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	report, err := h.svc.EvaluateProject(ctx, workload.EvaluateProjectInput{ProjectID: req.GetProjectId()})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &ledgerpb.EvaluateProjectResponse{
		Progress:         math.Round(report.Progress*100) / 100,
		Health:           toProtoHealth(report.Health),
		TotalInvolvement: int32(report.TotalInvolvement),
		Risks:            report.Risks,
	}, nil
}

func toProtoSnapshot(snap workload.Snapshot) *ledgerpb.CapacitySnapshot {
	return &ledgerpb.CapacitySnapshot{
		ProjectWorkload:     int32(snap.ProjectWorkload),
		OverBeyondWorkload:  int32(snap.OverBeyondWorkload),
		TotalWorkload:       int32(snap.TotalWorkload),
		AvailableCapacity:   int32(snap.AvailableCapacity),
		OverBeyondAvailable: int32(snap.OverBeyondAvailable),
	}
}

func toProtoAssignment(a *project.Assignment) *ledgerpb.Assignment {
	if a == nil {
		return nil
	}

	return &ledgerpb.Assignment{
		Id:                    a.ID,
		ProjectId:             a.ProjectID,
		EmployeeId:            a.EmployeeID,
		Role:                  a.Role,
		InvolvementPercentage: int32(a.InvolvementPercentage),
		AssignedAt:            timestamppb.New(a.AssignedAt),
		UpdatedAt:             timestamppb.New(a.UpdatedAt),
	}
}

func toProtoInitiative(i *initiative.Initiative) *ledgerpb.Initiative {
	if i == nil {
		return nil
	}

	var assignedTo *wrapperspb.StringValue
	if i.AssignedTo != nil {
		assignedTo = wrapperspb.String(*i.AssignedTo)
	}

	return &ledgerpb.Initiative{
		Id:                 i.ID,
		Title:              i.Title,
		Status:             toProtoInitiativeStatus(i.Status),
		AssignedTo:         assignedTo,
		WorkloadPercentage: int32(i.WorkloadPercentage),
		CreatedBy:          i.CreatedBy,
	}
}

func toProtoInitiativeStatus(s initiative.Status) ledgerpb.InitiativeStatus {
	switch s {
	case initiative.StatusPending:
		return ledgerpb.InitiativeStatus_INITIATIVE_STATUS_PENDING
	case initiative.StatusActive:
		return ledgerpb.InitiativeStatus_INITIATIVE_STATUS_ACTIVE
	case initiative.StatusCompleted:
		return ledgerpb.InitiativeStatus_INITIATIVE_STATUS_COMPLETED
	default:
		return ledgerpb.InitiativeStatus_INITIATIVE_STATUS_UNSPECIFIED
	}
}

func toProtoHealth(h project.Health) ledgerpb.ProjectHealth {
	switch strings.ToLower(string(h)) {
	case string(project.HealthHealthy):
		return ledgerpb.ProjectHealth_PROJECT_HEALTH_HEALTHY
	case string(project.HealthWarning):
		return ledgerpb.ProjectHealth_PROJECT_HEALTH_WARNING
	case string(project.HealthCritical):
		return ledgerpb.ProjectHealth_PROJECT_HEALTH_CRITICAL
	default:
		return ledgerpb.ProjectHealth_PROJECT_HEALTH_UNSPECIFIED
	}
}
