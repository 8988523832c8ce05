package handler

import (
	"errors"
	"testing"

	"github.com/ogurasousui/workload-ledger/internal/core/employee"
	"github.com/ogurasousui/workload-ledger/internal/core/initiative"
	"github.com/ogurasousui/workload-ledger/internal/core/project"
	"github.com/ogurasousui/workload-ledger/internal/core/workload"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatusError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"nil", nil, codes.OK},
		{"invalid involvement", workload.ErrInvalidInvolvement, codes.InvalidArgument},
		{"invalid role", workload.ErrInvalidRole, codes.InvalidArgument},
		{"invalid employee id", employee.ErrInvalidID, codes.InvalidArgument},
		{"capacity exceeded", &workload.CapacityExceededError{Requested: 25, Available: 20}, codes.ResourceExhausted},
		{"over beyond exceeded", &workload.OverBeyondExceededError{Requested: 10, Available: 5}, codes.ResourceExhausted},
		{"already assigned", workload.ErrAlreadyAssigned, codes.AlreadyExists},
		{"initiative taken", initiative.ErrAlreadyAssigned, codes.AlreadyExists},
		{"busy", workload.ErrBusy, codes.Aborted},
		{"employee missing", employee.ErrEmployeeNotFound, codes.NotFound},
		{"project missing", project.ErrProjectNotFound, codes.NotFound},
		{"assignment missing", workload.ErrAssignmentNotFound, codes.NotFound},
		{"initiative inactive", initiative.ErrInitiativeNotActive, codes.FailedPrecondition},
		{"unknown", errors.New("boom"), codes.Internal},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := toStatusError(tc.err)
			if tc.want == codes.OK {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if status.Code(got) != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, got)
			}
		})
	}
}

func TestToStatusError_KeepsShortfallDetail(t *testing.T) {
	t.Parallel()

	got := toStatusError(&workload.CapacityExceededError{Requested: 25, Available: 20})
	st, ok := status.FromError(got)
	if !ok {
		t.Fatalf("expected status error, got %v", got)
	}
	if st.Message() != "workload: capacity exceeded: requested 25%, available 20%" {
		t.Fatalf("unexpected message: %s", st.Message())
	}
}
