package handler

import (
	"errors"

	"github.com/ogurasousui/workload-ledger/internal/core/employee"
	"github.com/ogurasousui/workload-ledger/internal/core/initiative"
	"github.com/ogurasousui/workload-ledger/internal/core/project"
	"github.com/ogurasousui/workload-ledger/internal/core/workload"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatusError はドメインエラーを gRPC ステータスへ変換します。容量超過は
// 数値つきのメッセージのまま返すため、呼び出し側は要求値を調整できます。
func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, project.ErrInvalidID),
		errors.Is(err, project.ErrInvalidStatus),
		errors.Is(err, project.ErrInvalidPriority),
		errors.Is(err, initiative.ErrInvalidID),
		errors.Is(err, initiative.ErrInvalidStatus),
		errors.Is(err, workload.ErrInvalidInvolvement),
		errors.Is(err, workload.ErrInvalidWorkloadShare),
		errors.Is(err, workload.ErrInvalidRole),
		errors.Is(err, workload.ErrNoFieldsToUpdate):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, workload.ErrCapacityExceeded),
		errors.Is(err, workload.ErrOverBeyondCapExceeded):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, workload.ErrAlreadyAssigned),
		errors.Is(err, initiative.ErrAlreadyAssigned):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, workload.ErrBusy):
		// 唯一の再試行可能なエラーです。
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, initiative.ErrInitiativeNotFound),
		errors.Is(err, workload.ErrAssignmentNotFound),
		errors.Is(err, workload.ErrInitiativeNotAssigned):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, initiative.ErrInitiativeNotActive):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
