package employee

import "context"

// Repository は社員読み取りの抽象です。台帳は社員を参照するのみで、作成・更新は扱いません。
type Repository interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
}
