package mapper

import (
	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/model"
)

// LibraryMapper converts between the collection/embedding models and entities.
type LibraryMapper struct{}

func NewLibraryMapper() *LibraryMapper {
	return &LibraryMapper{}
}

func (m *LibraryMapper) CollectionToEntity(c *model.Collection) *entity.Collection {
	if c == nil {
		return nil
	}

	return &entity.Collection{
		Id:         c.Id,
		Name:       c.Name,
		MaxResults: c.MaxResults,
		Active:     c.Active,
		ModuleId:   c.ModuleId,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  optionalTime(c.UpdatedAt),
		DeletedAt:  deletedAtToPtr(c.DeletedAt),
		IsDeleted:  c.DeletedAt.Valid,
	}
}

func (m *LibraryMapper) CollectionToModel(c *entity.Collection) *model.Collection {
	if c == nil {
		return nil
	}

	return &model.Collection{
		Id:         c.Id,
		Name:       c.Name,
		MaxResults: c.MaxResults,
		Active:     c.Active,
		ModuleId:   c.ModuleId,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  timeOrZero(c.UpdatedAt),
		DeletedAt:  ptrToDeletedAt(c.DeletedAt, c.IsDeleted),
	}
}

func (m *LibraryMapper) EmbeddingToEntity(e *model.Embedding) *entity.Embedding {
	if e == nil {
		return nil
	}

	return &entity.Embedding{
		Id:           e.Id,
		CollectionId: e.CollectionId,
		UserId:       e.UserId,
		Name:         e.Name,
		Size:         e.Size,
		Mime:         e.Mime,
		Path:         e.Path,
		Content:      e.Content,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    optionalTime(e.UpdatedAt),
		DeletedAt:    deletedAtToPtr(e.DeletedAt),
		IsDeleted:    e.DeletedAt.Valid,
	}
}

func (m *LibraryMapper) EmbeddingToModel(e *entity.Embedding) *model.Embedding {
	if e == nil {
		return nil
	}

	return &model.Embedding{
		Id:           e.Id,
		CollectionId: e.CollectionId,
		UserId:       e.UserId,
		Name:         e.Name,
		Size:         e.Size,
		Mime:         e.Mime,
		Path:         e.Path,
		Content:      e.Content,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    timeOrZero(e.UpdatedAt),
		DeletedAt:    ptrToDeletedAt(e.DeletedAt, e.IsDeleted),
	}
}
