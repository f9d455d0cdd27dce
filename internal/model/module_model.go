package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Module struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name               string    `gorm:"type:text;not null"`
	ExternalRef        string    `gorm:"type:text;uniqueIndex;not null"` // LTI platform context id
	DefaultTemperature float64   `gorm:"default:0.7"`
	DefaultMaxTokens   int       `gorm:"default:1024"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (Module) TableName() string {
	return "modules"
}
