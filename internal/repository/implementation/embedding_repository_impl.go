package implementation

import (
	"context"
	"errors"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/mapper"
	"edu-chat-be/internal/model"
	"edu-chat-be/internal/repository/contract"
	"edu-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LibraryMapper
}

func NewEmbeddingRepository(db *gorm.DB) contract.EmbeddingRepository {
	return &EmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewLibraryMapper(),
	}
}

func (r *EmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.Embedding) error {
	m := r.mapper.EmbeddingToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.EmbeddingToEntity(m)
	return nil
}

func (r *EmbeddingRepositoryImpl) Update(ctx context.Context, embedding *entity.Embedding) error {
	m := r.mapper.EmbeddingToModel(embedding)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.EmbeddingToEntity(m)
	return nil
}

func (r *EmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Embedding{}, id).Error
}

func (r *EmbeddingRepositoryImpl) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&model.Embedding{}, id).Error
}

func (r *EmbeddingRepositoryImpl) DeleteAllByCollectionUnscoped(ctx context.Context, collectionId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("collection_id = ?", collectionId).
		Delete(&model.Embedding{}).Error
}

func (r *EmbeddingRepositoryImpl) FindAllByCollection(ctx context.Context, collectionId uuid.UUID) ([]*entity.Embedding, error) {
	var models []*model.Embedding
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.Embedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EmbeddingToEntity(m)
	}
	return entities, nil
}

func (r *EmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Embedding, error) {
	var m model.Embedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EmbeddingToEntity(&m), nil
}

func (r *EmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Embedding, error) {
	var models []*model.Embedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Embedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EmbeddingToEntity(m)
	}
	return entities, nil
}

func (r *EmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Embedding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
