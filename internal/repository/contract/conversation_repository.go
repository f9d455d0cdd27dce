package contract

import (
	"context"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	Update(ctx context.Context, conversation *entity.Conversation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByUrlId(ctx context.Context, urlId string) (*entity.Conversation, error)
	// CountByUser includes soft-deleted rows so "Chat #N" numbering never reuses a sequence.
	CountByUser(ctx context.Context, userId uuid.UUID) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
}
