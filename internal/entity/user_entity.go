package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id              uuid.UUID
	ModuleId        uuid.UUID
	ExternalRef     string
	Name            string
	Email           string
	PasswordHash    string
	MaxRequests     int
	IsAdmin         bool
	TermsAcceptedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
