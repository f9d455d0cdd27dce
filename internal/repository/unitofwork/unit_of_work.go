package unitofwork

import (
	"context"

	"edu-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ModuleRepository() contract.ModuleRepository
	UserRepository() contract.UserRepository
	AgentRepository() contract.AgentRepository
	AuthTokenRepository() contract.AuthTokenRepository

	CollectionRepository() contract.CollectionRepository
	EmbeddingRepository() contract.EmbeddingRepository

	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	SharedConversationRepository() contract.SharedConversationRepository
	UsageStatRepository() contract.UsageStatRepository
}
