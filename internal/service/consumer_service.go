package service

import (
	"context"
	"encoding/json"
	"time"

	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/pkg/logger"
	"edu-chat-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService aggregates token usage after each committed exchange.
// It runs off the request path so a slow or failing upsert never delays
// a chat response.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		log:        log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.MessageCreatedEvent
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("usage-consumer", "failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed payloads would retry forever
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	day := payload.CreatedAt.Truncate(24 * time.Hour)
	err := uow.UsageStatRepository().Increment(ctx, payload.ModuleId, payload.UserId, day, payload.PromptTokens, payload.CompletionTokens)
	if err != nil {
		cs.log.Error("usage-consumer", "failed to record usage", map[string]interface{}{
			"user_id": payload.UserId.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
