package quota

import (
	"context"
	"fmt"
	"time"

	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/repository/unitofwork"
)

// Window is the trailing period a user's quota applies to.
const Window = 24 * time.Hour

// Enforcer checks per-user message quotas over a sliding window.
type Enforcer struct {
	alertThresholds []int
}

func NewEnforcer(alertThresholds []int) *Enforcer {
	return &Enforcer{
		alertThresholds: alertThresholds,
	}
}

// Verify checks whether the user may send another message. A quota of
// zero rejects unconditionally with no retry estimate. Otherwise the
// turns of the trailing window are counted, fetching at most quota
// rows: once the cap is reached the exact count beyond it does not
// change the outcome.
func (e *Enforcer) Verify(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User) error {
	if user.MaxRequests == 0 {
		return &dto.QuotaExceededError{Quota: 0, Used: 0}
	}

	now := time.Now()
	since := now.Add(-Window)
	recent, err := uow.MessageRepository().FindRecentByUser(ctx, user.Id, since, user.MaxRequests)
	if err != nil {
		return fmt.Errorf("count recent messages: %w", err)
	}

	if len(recent) < user.MaxRequests {
		return nil
	}

	// Rows come newest first, so the last one is the oldest in the
	// window and the first to age out.
	oldest := recent[len(recent)-1]
	retryAt := oldest.CreatedAt.Add(Window)
	return &dto.QuotaExceededError{
		Quota:           user.MaxRequests,
		Used:            len(recent),
		RetryAfterHours: hoursUntil(now, retryAt),
		RetryAt:         retryAt,
	}
}

// Remaining reports how many messages the user has left in the window
// and, when that count crossed one of the configured thresholds, the
// alert to attach to the response.
func (e *Enforcer) Remaining(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User) (int, *dto.QuotaAlert, error) {
	if user.MaxRequests == 0 {
		return 0, nil, nil
	}

	since := time.Now().Add(-Window)
	recent, err := uow.MessageRepository().FindRecentByUser(ctx, user.Id, since, user.MaxRequests)
	if err != nil {
		return 0, nil, fmt.Errorf("count recent messages: %w", err)
	}

	remaining := user.MaxRequests - len(recent)
	if remaining < 0 {
		remaining = 0
	}

	for _, threshold := range e.alertThresholds {
		if remaining == threshold {
			return remaining, &dto.QuotaAlert{Remaining: remaining, Threshold: threshold}, nil
		}
	}
	return remaining, nil, nil
}

// hoursUntil rounds the wait up to whole hours, never below one.
func hoursUntil(now, retryAt time.Time) int {
	wait := retryAt.Sub(now)
	if wait <= 0 {
		return 1
	}
	hours := int(wait / time.Hour)
	if wait%time.Hour != 0 {
		hours++
	}
	return hours
}
