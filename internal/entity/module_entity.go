package entity

import (
	"time"

	"github.com/google/uuid"
)

type Module struct {
	Id                 uuid.UUID
	Name               string
	ExternalRef        string
	DefaultTemperature float64
	DefaultMaxTokens   int
	CreatedAt          time.Time
	UpdatedAt          *time.Time
	DeletedAt          *time.Time
	IsDeleted          bool
}
