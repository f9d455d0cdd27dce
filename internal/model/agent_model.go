package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Agent struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ModuleId           uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedById        *uuid.UUID `gorm:"type:uuid"`
	Name               string     `gorm:"type:text;uniqueIndex;not null"`
	SystemInstructions string     `gorm:"type:text"`
	Model              string     `gorm:"type:text;not null"`
	ContextWindow      int        `gorm:"default:6"` // max prior messages included for continuity
	Temperature        float64    `gorm:"default:0.7"`
	MaxResponseTokens  int        `gorm:"default:1024"`
	Active             bool       `gorm:"default:false;index"`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`

	Module Module `gorm:"foreignKey:ModuleId"`
}

func (Agent) TableName() string {
	return "agents"
}
