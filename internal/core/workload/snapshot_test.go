package workload

import (
	"testing"

	"github.com/ogurasousui/workload-ledger/internal/core/employee"
	"github.com/ogurasousui/workload-ledger/internal/core/initiative"
	"github.com/ogurasousui/workload-ledger/internal/core/project"
)

func TestComputeSnapshot_SumsActiveWork(t *testing.T) {
	t.Parallel()

	emp := &employee.Employee{ID: "emp-1", WorkloadCap: 100, OverBeyondCap: 20}
	assignments := []*project.Assignment{
		{EmployeeID: "emp-1", InvolvementPercentage: 40},
		{EmployeeID: "emp-1", InvolvementPercentage: 25},
	}
	initiatives := []*initiative.Initiative{
		{WorkloadPercentage: 10},
	}

	snap := ComputeSnapshot(emp, assignments, initiatives)

	if snap.ProjectWorkload != 65 {
		t.Errorf("expected project workload 65, got %d", snap.ProjectWorkload)
	}
	if snap.OverBeyondWorkload != 10 {
		t.Errorf("expected over&beyond workload 10, got %d", snap.OverBeyondWorkload)
	}
	if snap.TotalWorkload != 75 {
		t.Errorf("expected total workload 75, got %d", snap.TotalWorkload)
	}
	if snap.AvailableCapacity != 35 {
		t.Errorf("expected available capacity 35, got %d", snap.AvailableCapacity)
	}
	if snap.OverBeyondAvailable != 10 {
		t.Errorf("expected over&beyond available 10, got %d", snap.OverBeyondAvailable)
	}
}

func TestComputeSnapshot_UsesDefaultCaps(t *testing.T) {
	t.Parallel()

	emp := &employee.Employee{ID: "emp-1"}

	snap := ComputeSnapshot(emp, nil, nil)

	if snap.AvailableCapacity != employee.DefaultWorkloadCap {
		t.Errorf("expected default available capacity %d, got %d", employee.DefaultWorkloadCap, snap.AvailableCapacity)
	}
	if snap.OverBeyondAvailable != employee.DefaultOverBeyondCap {
		t.Errorf("expected default over&beyond available %d, got %d", employee.DefaultOverBeyondCap, snap.OverBeyondAvailable)
	}
}

func TestComputeSnapshot_ClampsNegativeHeadroom(t *testing.T) {
	t.Parallel()

	// 上限を下回る設定に変更された社員が既存コミットを抱えているケース。残量は
	// 負にならず 0 に丸められます。
	emp := &employee.Employee{ID: "emp-1", WorkloadCap: 50, OverBeyondCap: 5}
	assignments := []*project.Assignment{
		{EmployeeID: "emp-1", InvolvementPercentage: 70},
	}
	initiatives := []*initiative.Initiative{
		{WorkloadPercentage: 10},
	}

	snap := ComputeSnapshot(emp, assignments, initiatives)

	if snap.AvailableCapacity != 0 {
		t.Errorf("expected clamped available capacity 0, got %d", snap.AvailableCapacity)
	}
	if snap.OverBeyondAvailable != 0 {
		t.Errorf("expected clamped over&beyond available 0, got %d", snap.OverBeyondAvailable)
	}
}
