package implementation

import (
	"context"
	"errors"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/mapper"
	"edu-chat-be/internal/model"
	"edu-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SharedConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewSharedConversationRepository(db *gorm.DB) contract.SharedConversationRepository {
	return &SharedConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *SharedConversationRepositoryImpl) Create(ctx context.Context, share *entity.SharedConversation) error {
	m := r.mapper.SharedConversationToModel(share)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*share = *r.mapper.SharedConversationToEntity(m)
	return nil
}

func (r *SharedConversationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SharedConversation{}, id).Error
}

func (r *SharedConversationRepositoryImpl) FindByConversation(ctx context.Context, conversationId uuid.UUID) (*entity.SharedConversation, error) {
	var m model.SharedConversation
	if err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SharedConversationToEntity(&m), nil
}

func (r *SharedConversationRepositoryImpl) FindBySharedUrlId(ctx context.Context, sharedUrlId string) (*entity.SharedConversation, error) {
	var m model.SharedConversation
	if err := r.db.WithContext(ctx).Where("shared_url_id = ?", sharedUrlId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SharedConversationToEntity(&m), nil
}
