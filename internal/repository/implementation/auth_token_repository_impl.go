package implementation

import (
	"context"
	"errors"
	"time"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/mapper"
	"edu-chat-be/internal/model"
	"edu-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthTokenRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TenantMapper
}

func NewAuthTokenRepository(db *gorm.DB) contract.AuthTokenRepository {
	return &AuthTokenRepositoryImpl{
		db:     db,
		mapper: mapper.NewTenantMapper(),
	}
}

func (r *AuthTokenRepositoryImpl) Create(ctx context.Context, token *entity.AuthToken) error {
	m := r.mapper.AuthTokenToModel(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*token = *r.mapper.AuthTokenToEntity(m)
	return nil
}

func (r *AuthTokenRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AuthToken{}, id).Error
}

func (r *AuthTokenRepositoryImpl) FindByToken(ctx context.Context, token string) (*entity.AuthToken, error) {
	var m model.AuthToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AuthTokenToEntity(&m), nil
}

func (r *AuthTokenRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.AuthToken{})
	return res.RowsAffected, res.Error
}
