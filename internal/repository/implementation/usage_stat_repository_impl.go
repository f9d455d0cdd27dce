package implementation

import (
	"context"
	"time"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/mapper"
	"edu-chat-be/internal/model"
	"edu-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageStatRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewUsageStatRepository(db *gorm.DB) contract.UsageStatRepository {
	return &UsageStatRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *UsageStatRepositoryImpl) Increment(ctx context.Context, moduleId, userId uuid.UUID, day time.Time, promptTokens, completionTokens int64) error {
	row := model.UsageStat{
		Id:               uuid.New(),
		ModuleId:         moduleId,
		UserId:           userId,
		Day:              day,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "module_id"}, {Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"prompt_tokens":     gorm.Expr("usage_stats.prompt_tokens + ?", promptTokens),
			"completion_tokens": gorm.Expr("usage_stats.completion_tokens + ?", completionTokens),
			"updated_at":        time.Now(),
		}),
	}).Create(&row).Error
}

func (r *UsageStatRepositoryImpl) FindAllByModule(ctx context.Context, moduleId uuid.UUID) ([]*entity.UsageStat, error) {
	var models []*model.UsageStat
	err := r.db.WithContext(ctx).
		Where("module_id = ?", moduleId).
		Order("day DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.UsageStat, len(models))
	for i, m := range models {
		entities[i] = r.mapper.UsageStatToEntity(m)
	}
	return entities, nil
}
