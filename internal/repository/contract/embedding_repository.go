package contract

import (
	"context"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type EmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.Embedding) error
	Update(ctx context.Context, embedding *entity.Embedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteUnscoped hard-deletes one record; used by the synchronizer.
	DeleteUnscoped(ctx context.Context, id uuid.UUID) error
	// DeleteAllByCollectionUnscoped hard-deletes every record of a collection.
	DeleteAllByCollectionUnscoped(ctx context.Context, collectionId uuid.UUID) error
	FindAllByCollection(ctx context.Context, collectionId uuid.UUID) ([]*entity.Embedding, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Embedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Embedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
