package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ModuleId        uuid.UUID `gorm:"type:uuid;not null;index"`
	ExternalRef     string    `gorm:"type:text;not null;index"` // LTI user id within the platform
	Name            string    `gorm:"type:text;not null"`
	Email           string    `gorm:"type:text;index"`
	PasswordHash    string    `gorm:"type:text"` // only set for admin accounts
	MaxRequests     int       `gorm:"default:50"` // messages per trailing 24h
	IsAdmin         bool      `gorm:"default:false"`
	TermsAcceptedAt *time.Time
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`

	Module Module `gorm:"foreignKey:ModuleId"`
}

func (User) TableName() string {
	return "users"
}
