package initiative

import "context"

// Repository は施策永続化の抽象です。
type Repository interface {
	FindByID(ctx context.Context, id string) (*Initiative, error)
	// ListActiveByEmployee は指定社員に割り当て済みで status が active な施策を返します。
	ListActiveByEmployee(ctx context.Context, employeeID string) ([]*Initiative, error)
	// Assign は施策を社員へ割り当て、負荷率を記録します。
	Assign(ctx context.Context, id, employeeID string, workloadPercentage int) (*Initiative, error)
	// Unassign は施策の割り当てを解除します。
	Unassign(ctx context.Context, id string) (*Initiative, error)
}
