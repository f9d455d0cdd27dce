package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Embedding is the relational record of one ingested document. Its Id doubles
// as the document id in the vector store so the two sides can be correlated.
type Embedding struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CollectionId uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserId       *uuid.UUID `gorm:"type:uuid;index"`
	Name         string     `gorm:"type:text;not null"` // original filename
	Size         int64      `gorm:"not null"`
	Mime         string     `gorm:"type:text"`
	Path         string     `gorm:"type:text"` // transient upload path, cleared after embedding
	Content      string     `gorm:"type:text"` // cached extracted text
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`

	Collection Collection `gorm:"foreignKey:CollectionId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Embedding) TableName() string {
	return "embeddings"
}
