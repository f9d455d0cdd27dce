package entity

import (
	"time"

	"github.com/google/uuid"
)

type Agent struct {
	Id                 uuid.UUID
	ModuleId           uuid.UUID
	CreatedById        *uuid.UUID
	Name               string
	SystemInstructions string
	Model              string
	ContextWindow      int
	Temperature        float64
	MaxResponseTokens  int
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          *time.Time
	DeletedAt          *time.Time
	IsDeleted          bool
}
