package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCollectionRequest struct {
	Name       string     `json:"name" validate:"required,max=255"`
	MaxResults int        `json:"max_results" validate:"omitempty,min=1,max=20"`
	ModuleId   *uuid.UUID `json:"module_id"`
}

type CollectionResponse struct {
	Id         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	MaxResults int        `json:"max_results"`
	Active     bool       `json:"active"`
	ModuleId   *uuid.UUID `json:"module_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

type EmbeddingResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Mime      string    `json:"mime"`
	CreatedAt time.Time `json:"created_at"`
}
