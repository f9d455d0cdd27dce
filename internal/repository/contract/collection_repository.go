package contract

import (
	"context"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CollectionRepository interface {
	Create(ctx context.Context, collection *entity.Collection) error
	Update(ctx context.Context, collection *entity.Collection) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByNameUnscoped hard-deletes a collection row regardless of soft
	// delete state. Used by the synchronizer when the vector store no longer
	// knows the collection.
	DeleteByNameUnscoped(ctx context.Context, name string) error
	FindByName(ctx context.Context, name string) (*entity.Collection, error)
	FindActiveByModule(ctx context.Context, moduleId uuid.UUID) (*entity.Collection, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Collection, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Collection, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
