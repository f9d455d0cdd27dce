package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection mirrors a vector-store collection 1:1 by name.
type Collection struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string     `gorm:"type:text;uniqueIndex;not null"`
	MaxResults int        `gorm:"default:3"` // retrieval top-K
	Active     bool       `gorm:"default:false;index"`
	ModuleId   *uuid.UUID `gorm:"type:uuid;index"` // null until assigned to a module
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Collection) TableName() string {
	return "collections"
}
