package workload

import (
	"github.com/ogurasousui/workload-ledger/internal/core/employee"
	"github.com/ogurasousui/workload-ledger/internal/core/initiative"
	"github.com/ogurasousui/workload-ledger/internal/core/project"
)

// Snapshot は社員の負荷状況をその時点の値で表します。保存はせず、読み取りの
// たびに再計算します。
type Snapshot struct {
	ProjectWorkload     int
	OverBeyondWorkload  int
	TotalWorkload       int
	AvailableCapacity   int
	OverBeyondAvailable int
}

// ComputeSnapshot は Snapshot を算出する純関数です。assignments は active な
// プロジェクトに属するもの、initiatives は active かつ当該社員へ割り当て済みの
// ものだけを渡します。
func ComputeSnapshot(emp *employee.Employee, assignments []*project.Assignment, initiatives []*initiative.Initiative) Snapshot {
	snap := Snapshot{}

	for _, a := range assignments {
		snap.ProjectWorkload += a.InvolvementPercentage
	}
	for _, i := range initiatives {
		snap.OverBeyondWorkload += i.WorkloadPercentage
	}

	snap.TotalWorkload = snap.ProjectWorkload + snap.OverBeyondWorkload
	snap.AvailableCapacity = max(0, emp.EffectiveWorkloadCap()-snap.ProjectWorkload)
	snap.OverBeyondAvailable = max(0, emp.EffectiveOverBeyondCap()-snap.OverBeyondWorkload)
	return snap
}
