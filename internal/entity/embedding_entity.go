package entity

import (
	"time"

	"github.com/google/uuid"
)

type Embedding struct {
	Id           uuid.UUID
	CollectionId uuid.UUID
	UserId       *uuid.UUID
	Name         string
	Size         int64
	Mime         string
	Path         string
	Content      string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
