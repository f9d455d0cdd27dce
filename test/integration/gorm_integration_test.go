package integration

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/repository/unitofwork"
	"edu-chat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ConversationRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Embedding Repository", func(t *testing.T) {
		count, err := uow.EmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Embedding count: %d", count)
	})

	t.Run("Check Transactional Conversation With Message", func(t *testing.T) {
		ctx := context.Background()

		moduleId := uuid.New()
		module := &entity.Module{
			Id:          moduleId,
			Name:        "Integration Module",
			ExternalRef: "integration-module-" + uuid.New().String(),
			CreatedAt:   time.Now(),
		}

		userId := uuid.New()
		user := &entity.User{
			Id:          userId,
			ModuleId:    moduleId,
			ExternalRef: "integration-user-" + uuid.New().String(),
			Name:        "Integration Test User",
			Email:       "test-integration-" + uuid.New().String() + "@example.com",
			MaxRequests: 50,
			CreatedAt:   time.Now(),
		}

		agentId := uuid.New()
		agent := &entity.Agent{
			Id:                 agentId,
			ModuleId:           moduleId,
			Name:               "Integration Agent " + uuid.New().String(),
			SystemInstructions: "Answer briefly.",
			Model:              "gpt-4o-mini",
			ContextWindow:      5,
			MaxResponseTokens:  1024,
			CreatedAt:          time.Now(),
		}

		collectionId := uuid.New()
		collection := &entity.Collection{
			Id:         collectionId,
			ModuleId:   &moduleId,
			Name:       "integration-collection-" + uuid.New().String(),
			MaxResults: 3,
			CreatedAt:  time.Now(),
		}

		// Setup DB data outside the transaction under test
		err := uow.ModuleRepository().Create(ctx, module)
		assert.NoError(t, err)
		err = uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)
		err = uow.AgentRepository().Create(ctx, agent)
		assert.NoError(t, err)
		err = uow.CollectionRepository().Create(ctx, collection)
		assert.NoError(t, err)

		// Transaction test
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		conversationId := uuid.New()
		conversation := &entity.Conversation{
			Id:           conversationId,
			UrlId:        strings.ReplaceAll(uuid.New().String(), "-", ""),
			Name:         "Chat #1",
			UserId:       userId,
			ModuleId:     moduleId,
			AgentId:      agentId,
			CollectionId: collectionId,
			CreatedAt:    time.Now(),
		}
		err = uow.ConversationRepository().Create(ctx, conversation)
		assert.NoError(t, err)

		message := &entity.Message{
			Id:             uuid.New(),
			ConversationId: conversationId,
			UserMessage:    "What is entropy?",
			AgentMessage:   "A measure of disorder.",
			Prompt:         "system prompt",
			Model:          "gpt-4o-mini",
			CreatedAt:      time.Now(),
		}
		err = uow.MessageRepository().Create(ctx, message)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully created Conversation with Message in Transaction")
	})
}
