package employee

import "time"

const (
	// DefaultWorkloadCap は通常業務の既定上限（パーセント）です。
	DefaultWorkloadCap = 100
	// DefaultOverBeyondCap は Over & Beyond の既定上限（パーセント）です。
	DefaultOverBeyondCap = 20
)

// Employee は社員エンティティです。
type Employee struct {
	ID            string
	Name          string
	Email         string
	WorkloadCap   int
	OverBeyondCap int
	ManagerID     *string
	Skills        []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectiveWorkloadCap は通常業務の実効上限を返します。未設定なら既定値です。
func (e *Employee) EffectiveWorkloadCap() int {
	if e.WorkloadCap > 0 {
		return e.WorkloadCap
	}
	return DefaultWorkloadCap
}

// EffectiveOverBeyondCap は Over & Beyond の実効上限を返します。未設定なら既定値です。
func (e *Employee) EffectiveOverBeyondCap() int {
	if e.OverBeyondCap > 0 {
		return e.OverBeyondCap
	}
	return DefaultOverBeyondCap
}
