package contract

import (
	"context"
	"time"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	Update(ctx context.Context, message *entity.Message) error
	// FindRecentByUser returns the user's messages created at or after since,
	// newest first, fetching at most limit rows. The cap intentionally equals
	// the user's current quota: see the rate-limit window contract.
	FindRecentByUser(ctx context.Context, userId uuid.UUID, since time.Time, limit int) ([]*entity.Message, error)
	FindAllByConversation(ctx context.Context, conversationId uuid.UUID, specs ...specification.Specification) ([]*entity.Message, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
