package project

import "context"

// Repository はプロジェクト読み取りの抽象です。
type Repository interface {
	// FindByID はマイルストーンとアサインを含むプロジェクトを取得します。
	FindByID(ctx context.Context, id string) (*Project, error)
}

// AssignmentRepository はアサイン（プロジェクト×社員）の永続化抽象です。
type AssignmentRepository interface {
	Create(ctx context.Context, a *Assignment) (*Assignment, error)
	Update(ctx context.Context, a *Assignment) (*Assignment, error)
	Delete(ctx context.Context, projectID, employeeID string) error
	FindByProjectAndEmployee(ctx context.Context, projectID, employeeID string) (*Assignment, error)
	// ListActiveByEmployee は status が active なプロジェクトに属するアサインのみを返します。
	ListActiveByEmployee(ctx context.Context, employeeID string) ([]*Assignment, error)
}
