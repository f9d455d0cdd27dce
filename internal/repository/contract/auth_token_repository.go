package contract

import (
	"context"
	"time"

	"edu-chat-be/internal/entity"

	"github.com/google/uuid"
)

type AuthTokenRepository interface {
	Create(ctx context.Context, token *entity.AuthToken) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByToken(ctx context.Context, token string) (*entity.AuthToken, error)
	// DeleteExpired removes every token whose expiry is before now. Idempotent.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
