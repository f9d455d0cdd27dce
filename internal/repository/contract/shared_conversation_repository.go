package contract

import (
	"context"

	"edu-chat-be/internal/entity"

	"github.com/google/uuid"
)

type SharedConversationRepository interface {
	Create(ctx context.Context, share *entity.SharedConversation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByConversation(ctx context.Context, conversationId uuid.UUID) (*entity.SharedConversation, error)
	FindBySharedUrlId(ctx context.Context, sharedUrlId string) (*entity.SharedConversation, error)
}
