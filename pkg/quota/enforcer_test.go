package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/repository/contract"
	"edu-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type fakeMessageRepo struct {
	contract.MessageRepository
	recent   []*entity.Message
	err      error
	gotLimit int
}

func (f *fakeMessageRepo) FindRecentByUser(ctx context.Context, userId uuid.UUID, since time.Time, limit int) ([]*entity.Message, error) {
	f.gotLimit = limit
	return f.recent, f.err
}

type fakeUow struct {
	unitofwork.UnitOfWork
	messages *fakeMessageRepo
}

func (f *fakeUow) MessageRepository() contract.MessageRepository {
	return f.messages
}

func messagesAgedBy(ages ...time.Duration) []*entity.Message {
	now := time.Now()
	msgs := make([]*entity.Message, len(ages))
	for i, age := range ages {
		msgs[i] = &entity.Message{Id: uuid.New(), CreatedAt: now.Add(-age)}
	}
	return msgs
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("zero quota rejects unconditionally", func(t *testing.T) {
		uow := &fakeUow{messages: &fakeMessageRepo{}}
		enforcer := NewEnforcer(nil)

		err := enforcer.Verify(ctx, uow, &entity.User{MaxRequests: 0})

		var quotaErr *dto.QuotaExceededError
		if !errors.As(err, &quotaErr) {
			t.Fatalf("Verify() = %v, want QuotaExceededError", err)
		}
		if quotaErr.Quota != 0 {
			t.Errorf("Quota = %d, want 0", quotaErr.Quota)
		}
		if quotaErr.RetryAfterHours != 0 {
			t.Errorf("RetryAfterHours = %d, want 0 for zero quota", quotaErr.RetryAfterHours)
		}
	})

	t.Run("under quota passes", func(t *testing.T) {
		uow := &fakeUow{messages: &fakeMessageRepo{recent: messagesAgedBy(time.Hour, 2*time.Hour)}}
		enforcer := NewEnforcer(nil)

		if err := enforcer.Verify(ctx, uow, &entity.User{MaxRequests: 5}); err != nil {
			t.Errorf("Verify() = %v, want nil", err)
		}
		if uow.messages.gotLimit != 5 {
			t.Errorf("fetch limit = %d, want quota 5", uow.messages.gotLimit)
		}
	})

	t.Run("at quota rejects with retry rounded up", func(t *testing.T) {
		// Oldest row is 20h30m old, so it ages out of the 24h window in
		// 3h30m, which rounds up to 4 whole hours.
		uow := &fakeUow{messages: &fakeMessageRepo{
			recent: messagesAgedBy(time.Hour, 10*time.Hour, 20*time.Hour+30*time.Minute),
		}}
		enforcer := NewEnforcer(nil)

		err := enforcer.Verify(ctx, uow, &entity.User{MaxRequests: 3})

		var quotaErr *dto.QuotaExceededError
		if !errors.As(err, &quotaErr) {
			t.Fatalf("Verify() = %v, want QuotaExceededError", err)
		}
		if quotaErr.Used != 3 {
			t.Errorf("Used = %d, want 3", quotaErr.Used)
		}
		if quotaErr.RetryAfterHours != 4 {
			t.Errorf("RetryAfterHours = %d, want 4", quotaErr.RetryAfterHours)
		}
	})

	t.Run("retry never reports below one hour", func(t *testing.T) {
		uow := &fakeUow{messages: &fakeMessageRepo{
			recent: messagesAgedBy(23*time.Hour + 59*time.Minute),
		}}
		enforcer := NewEnforcer(nil)

		err := enforcer.Verify(ctx, uow, &entity.User{MaxRequests: 1})

		var quotaErr *dto.QuotaExceededError
		if !errors.As(err, &quotaErr) {
			t.Fatalf("Verify() = %v, want QuotaExceededError", err)
		}
		if quotaErr.RetryAfterHours != 1 {
			t.Errorf("RetryAfterHours = %d, want 1", quotaErr.RetryAfterHours)
		}
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		uow := &fakeUow{messages: &fakeMessageRepo{err: errors.New("db down")}}
		enforcer := NewEnforcer(nil)

		err := enforcer.Verify(ctx, uow, &entity.User{MaxRequests: 5})
		if err == nil {
			t.Fatal("Verify() = nil, want error")
		}
		var quotaErr *dto.QuotaExceededError
		if errors.As(err, &quotaErr) {
			t.Errorf("Verify() = QuotaExceededError, want plain error for repo failure")
		}
	})
}

func TestRemaining(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		quota         int
		used          int
		thresholds    []int
		wantRemaining int
		wantAlert     bool
		wantThreshold int
	}{
		{"no usage below thresholds stays quiet", 50, 0, []int{25, 10}, 50, false, 0},
		{"full remaining hits top threshold", 50, 0, []int{50, 25, 10}, 50, true, 50},
		{"crossing a threshold alerts", 50, 25, []int{50, 25, 10}, 25, true, 25},
		{"between thresholds stays quiet", 50, 20, []int{50, 25, 10}, 30, false, 0},
		{"lowest threshold alerts", 50, 40, []int{50, 25, 10}, 10, true, 10},
		{"over quota clamps to zero", 10, 10, []int{5}, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ages := make([]time.Duration, tt.used)
			for i := range ages {
				ages[i] = time.Duration(i+1) * time.Minute
			}
			uow := &fakeUow{messages: &fakeMessageRepo{recent: messagesAgedBy(ages...)}}
			enforcer := NewEnforcer(tt.thresholds)

			remaining, alert, err := enforcer.Remaining(ctx, uow, &entity.User{MaxRequests: tt.quota})
			if err != nil {
				t.Fatalf("Remaining() error = %v", err)
			}
			if remaining != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", remaining, tt.wantRemaining)
			}
			if (alert != nil) != tt.wantAlert {
				t.Fatalf("alert = %v, want alert %v", alert, tt.wantAlert)
			}
			if alert != nil && alert.Threshold != tt.wantThreshold {
				t.Errorf("alert.Threshold = %d, want %d", alert.Threshold, tt.wantThreshold)
			}
		})
	}

	t.Run("zero quota reports zero remaining without alert", func(t *testing.T) {
		uow := &fakeUow{messages: &fakeMessageRepo{}}
		enforcer := NewEnforcer([]int{0})

		remaining, alert, err := enforcer.Remaining(ctx, uow, &entity.User{MaxRequests: 0})
		if err != nil {
			t.Fatalf("Remaining() error = %v", err)
		}
		if remaining != 0 || alert != nil {
			t.Errorf("Remaining() = (%d, %v), want (0, nil)", remaining, alert)
		}
	})
}
