package contract

import (
	"context"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AgentRepository interface {
	Create(ctx context.Context, agent *entity.Agent) error
	Update(ctx context.Context, agent *entity.Agent) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeactivateAllByModule clears the active flag for every agent of a module.
	// Run before activating a new agent so at most one stays active.
	DeactivateAllByModule(ctx context.Context, moduleId uuid.UUID) error
	FindActiveByModule(ctx context.Context, moduleId uuid.UUID) (*entity.Agent, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Agent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Agent, error)
}
