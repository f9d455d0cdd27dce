package contract

import (
	"context"
	"time"

	"edu-chat-be/internal/entity"

	"github.com/google/uuid"
)

type UsageStatRepository interface {
	// Increment upserts the (module, user, day) row and adds the token counts.
	Increment(ctx context.Context, moduleId, userId uuid.UUID, day time.Time, promptTokens, completionTokens int64) error
	FindAllByModule(ctx context.Context, moduleId uuid.UUID) ([]*entity.UsageStat, error)
}
