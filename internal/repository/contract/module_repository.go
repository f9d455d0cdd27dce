package contract

import (
	"context"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/repository/specification"
)

type ModuleRepository interface {
	Create(ctx context.Context, module *entity.Module) error
	Update(ctx context.Context, module *entity.Module) error
	FindByExternalRef(ctx context.Context, externalRef string) (*entity.Module, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Module, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Module, error)
}
