package mapper

import (
	"encoding/json"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Conversation Mappers

func (m *ChatMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	return &entity.Conversation{
		Id:               c.Id,
		UrlId:            c.UrlId,
		Name:             c.Name,
		UserId:           c.UserId,
		ModuleId:         c.ModuleId,
		AgentId:          c.AgentId,
		CollectionId:     c.CollectionId,
		PromptTokens:     c.PromptTokens,
		CompletionTokens: c.CompletionTokens,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        optionalTime(c.UpdatedAt),
		DeletedAt:        deletedAtToPtr(c.DeletedAt),
		IsDeleted:        c.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	return &model.Conversation{
		Id:               c.Id,
		UrlId:            c.UrlId,
		Name:             c.Name,
		UserId:           c.UserId,
		ModuleId:         c.ModuleId,
		AgentId:          c.AgentId,
		CollectionId:     c.CollectionId,
		PromptTokens:     c.PromptTokens,
		CompletionTokens: c.CompletionTokens,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        timeOrZero(c.UpdatedAt),
		DeletedAt:        ptrToDeletedAt(c.DeletedAt, c.IsDeleted),
	}
}

// Message Mappers

func (m *ChatMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}

	var docIds []string
	if len(msg.ContextDocIds) > 0 {
		// Ignore unmarshal failures; a message without readable context ids
		// is still displayable.
		_ = json.Unmarshal(msg.ContextDocIds, &docIds)
	}

	return &entity.Message{
		Id:               msg.Id,
		ConversationId:   msg.ConversationId,
		UserMessage:      msg.UserMessage,
		AgentMessage:     msg.AgentMessage,
		Prompt:           msg.Prompt,
		ContextDocIds:    docIds,
		PromptTokens:     msg.PromptTokens,
		CompletionTokens: msg.CompletionTokens,
		Model:            msg.Model,
		Helpful:          msg.Helpful,
		CreatedAt:        msg.CreatedAt,
		UpdatedAt:        optionalTime(msg.UpdatedAt),
		DeletedAt:        deletedAtToPtr(msg.DeletedAt),
		IsDeleted:        msg.DeletedAt.Valid,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}

	var docIds datatypes.JSON
	if len(msg.ContextDocIds) > 0 {
		if b, err := json.Marshal(msg.ContextDocIds); err == nil {
			docIds = b
		}
	}

	return &model.Message{
		Id:               msg.Id,
		ConversationId:   msg.ConversationId,
		UserMessage:      msg.UserMessage,
		AgentMessage:     msg.AgentMessage,
		Prompt:           msg.Prompt,
		ContextDocIds:    docIds,
		PromptTokens:     msg.PromptTokens,
		CompletionTokens: msg.CompletionTokens,
		Model:            msg.Model,
		Helpful:          msg.Helpful,
		CreatedAt:        msg.CreatedAt,
		UpdatedAt:        timeOrZero(msg.UpdatedAt),
		DeletedAt:        ptrToDeletedAt(msg.DeletedAt, msg.IsDeleted),
	}
}

// SharedConversation Mappers

func (m *ChatMapper) SharedConversationToEntity(s *model.SharedConversation) *entity.SharedConversation {
	if s == nil {
		return nil
	}

	return &entity.SharedConversation{
		Id:             s.Id,
		SharedUrlId:    s.SharedUrlId,
		ConversationId: s.ConversationId,
		CreatedAt:      s.CreatedAt,
	}
}

func (m *ChatMapper) SharedConversationToModel(s *entity.SharedConversation) *model.SharedConversation {
	if s == nil {
		return nil
	}

	return &model.SharedConversation{
		Id:             s.Id,
		SharedUrlId:    s.SharedUrlId,
		ConversationId: s.ConversationId,
		CreatedAt:      s.CreatedAt,
	}
}

// UsageStat Mappers

func (m *ChatMapper) UsageStatToEntity(u *model.UsageStat) *entity.UsageStat {
	if u == nil {
		return nil
	}

	return &entity.UsageStat{
		Id:               u.Id,
		ModuleId:         u.ModuleId,
		UserId:           u.UserId,
		Day:              u.Day,
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        optionalTime(u.UpdatedAt),
	}
}

func (m *ChatMapper) UsageStatToModel(u *entity.UsageStat) *model.UsageStat {
	if u == nil {
		return nil
	}

	return &model.UsageStat{
		Id:               u.Id,
		ModuleId:         u.ModuleId,
		UserId:           u.UserId,
		Day:              u.Day,
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        timeOrZero(u.UpdatedAt),
	}
}
