package model

import (
	"time"

	"github.com/google/uuid"
)

// UsageStat aggregates token counts per user and day. Rows are upserted by
// the usage consumer after each committed message.
type UsageStat struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	ModuleId         uuid.UUID `gorm:"type:uuid;not null;index:idx_usage_module_user_day,priority:1"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index:idx_usage_module_user_day,priority:2"`
	Day              time.Time `gorm:"type:date;not null;index:idx_usage_module_user_day,priority:3"`
	PromptTokens     int64     `gorm:"default:0"`
	CompletionTokens int64     `gorm:"default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (UsageStat) TableName() string {
	return "usage_stats"
}
