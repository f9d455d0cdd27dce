package implementation

import (
	"context"
	"errors"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/mapper"
	"edu-chat-be/internal/model"
	"edu-chat-be/internal/repository/contract"
	"edu-chat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ModuleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TenantMapper
}

func NewModuleRepository(db *gorm.DB) contract.ModuleRepository {
	return &ModuleRepositoryImpl{
		db:     db,
		mapper: mapper.NewTenantMapper(),
	}
}

func (r *ModuleRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ModuleRepositoryImpl) Create(ctx context.Context, module *entity.Module) error {
	m := r.mapper.ModuleToModel(module)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*module = *r.mapper.ModuleToEntity(m)
	return nil
}

func (r *ModuleRepositoryImpl) Update(ctx context.Context, module *entity.Module) error {
	m := r.mapper.ModuleToModel(module)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*module = *r.mapper.ModuleToEntity(m)
	return nil
}

func (r *ModuleRepositoryImpl) FindByExternalRef(ctx context.Context, externalRef string) (*entity.Module, error) {
	var m model.Module
	if err := r.db.WithContext(ctx).Where("external_ref = ?", externalRef).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ModuleToEntity(&m), nil
}

func (r *ModuleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Module, error) {
	var m model.Module
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ModuleToEntity(&m), nil
}

func (r *ModuleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Module, error) {
	var models []*model.Module
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Module, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ModuleToEntity(m)
	}
	return entities, nil
}
