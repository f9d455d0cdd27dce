package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"edu-chat-be/internal/constant"
	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/pkg/logger"
	"edu-chat-be/internal/repository/specification"
	"edu-chat-be/internal/repository/unitofwork"
	"edu-chat-be/pkg/chroma"
	"edu-chat-be/pkg/llm"
	"edu-chat-be/pkg/quota"
	"edu-chat-be/pkg/rag/prompt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// FetchKind selects the access rule applied when reading a
// conversation's messages.
type FetchKind int

const (
	// FetchAsOwner requires the requesting user to own the conversation.
	FetchAsOwner FetchKind = iota
	// FetchAsAdmin allows any conversation within the admin's module.
	FetchAsAdmin
)

// exchangeState tracks how far an exchange got inside its transaction.
// Everything before committed rolls back as one unit.
type exchangeState string

const (
	stateDraft            exchangeState = "draft"
	stateContextAssembled exchangeState = "context_assembled"
	stateModelResponded   exchangeState = "model_responded"
	stateTitleAttempted   exchangeState = "title_attempted"
	stateCommitted        exchangeState = "committed"
)

const sharedViewCacheTTL = 10 * time.Minute

type IConversationService interface {
	Start(ctx context.Context, userId uuid.UUID, req *dto.StartConversationRequest) (*dto.ChatResponse, error)
	Send(ctx context.Context, userId uuid.UUID, urlId string, req *dto.SendMessageRequest) (*dto.ChatResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error)
	FetchMessages(ctx context.Context, kind FetchKind, userId uuid.UUID, urlId string) ([]*dto.MessageResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, urlId string, req *dto.RenameConversationRequest) (*dto.ConversationResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, urlId string) error
	RateMessage(ctx context.Context, userId uuid.UUID, urlId string, req *dto.RateMessageRequest) error

	Share(ctx context.Context, userId uuid.UUID, urlId string) (*dto.ShareConversationResponse, error)
	Unshare(ctx context.Context, userId uuid.UUID, urlId string) error
	// GetSharedView returns the public snapshot of a shared conversation:
	// only exchanges that existed strictly before the share was created.
	GetSharedView(ctx context.Context, sharedUrlId string) (*dto.SharedConversationView, error)
}

type conversationService struct {
	uowFactory       unitofwork.RepositoryFactory
	gateway          chroma.Gateway
	llmProvider      llm.Provider
	titleModel       string
	quotaEnforcer    *quota.Enforcer
	publisherService IPublisherService
	redisClient      *redis.Client
	maxMessageLength int
	log              logger.ILogger
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	gateway chroma.Gateway,
	llmProvider llm.Provider,
	titleModel string,
	quotaEnforcer *quota.Enforcer,
	publisherService IPublisherService,
	redisClient *redis.Client,
	maxMessageLength int,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		uowFactory:       uowFactory,
		gateway:          gateway,
		llmProvider:      llmProvider,
		titleModel:       titleModel,
		quotaEnforcer:    quotaEnforcer,
		publisherService: publisherService,
		redisClient:      redisClient,
		maxMessageLength: maxMessageLength,
		log:              log,
	}
}

func (s *conversationService) Start(ctx context.Context, userId uuid.UUID, req *dto.StartConversationRequest) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user, err := s.loadUser(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	if user.TermsAcceptedAt == nil {
		return nil, &dto.ValidationError{Message: "terms must be accepted before chatting"}
	}

	// Sequence numbers count every conversation ever created, deleted
	// ones included, so a title is never reused.
	count, err := uow.ConversationRepository().CountByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	conversation := entity.Conversation{
		Id:        uuid.New(),
		UrlId:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		Name:      fmt.Sprintf("%s%d", constant.ConversationNamePrefix, count+1),
		UserId:    userId,
		ModuleId:  user.ModuleId,
		CreatedAt: time.Now(),
	}
	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, err
	}

	return s.runExchange(ctx, uow, user, &conversation, req.Message, true)
}

func (s *conversationService) Send(ctx context.Context, userId uuid.UUID, urlId string, req *dto.SendMessageRequest) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user, err := s.loadUser(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	conversation, err := s.loadOwned(ctx, uow, userId, urlId)
	if err != nil {
		return nil, err
	}

	return s.runExchange(ctx, uow, user, conversation, req.Message, false)
}

// runExchange drives one user turn through its states inside the open
// transaction. A failure at any point rolls the whole exchange back.
func (s *conversationService) runExchange(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, conversation *entity.Conversation, userMessage string, firstExchange bool) (*dto.ChatResponse, error) {
	state := stateDraft

	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return nil, &dto.ValidationError{Message: "message must not be empty"}
	}
	if utf8.RuneCountInString(userMessage) > s.maxMessageLength {
		return nil, &dto.ValidationError{Message: fmt.Sprintf("message exceeds the maximum length of %d characters", s.maxMessageLength)}
	}

	if err := s.quotaEnforcer.Verify(ctx, uow, user); err != nil {
		return nil, err
	}

	agent, err := uow.AgentRepository().FindActiveByModule(ctx, user.ModuleId)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, &dto.NotFoundError{Resource: "active agent"}
	}

	collection, retrieved, err := s.retrieveContext(ctx, uow, user.ModuleId, userMessage)
	if err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, uow, conversation.Id, agent.ContextWindow)
	if err != nil {
		return nil, err
	}

	builder := prompt.NewBuilder(agent, retrieved, history, userMessage)
	state = stateContextAssembled

	// The exchange timestamp is the moment the user sent the message,
	// not the commit time after the model round trip.
	sentAt := time.Now()

	opts := []llm.Option{
		llm.WithTemperature(agent.Temperature),
		llm.WithMaxTokens(agent.MaxResponseTokens),
	}
	if agent.Model != "" {
		opts = append(opts, llm.WithModel(agent.Model))
	}

	completion, err := s.llmProvider.Chat(ctx, builder.Messages(), opts...)
	if err != nil {
		var modelErr *llm.ModelError
		if errors.As(err, &modelErr) {
			s.log.Warn("conversation", "model call failed, rolling back exchange", map[string]interface{}{
				"conversation_id": conversation.Id.String(),
				"state":           string(state),
				"status":          modelErr.StatusCode,
			})
			return nil, &dto.UpstreamModelError{StatusCode: modelErr.StatusCode, Message: modelErr.Message}
		}
		return nil, err
	}
	state = stateModelResponded

	message := entity.Message{
		Id:               uuid.New(),
		ConversationId:   conversation.Id,
		UserMessage:      userMessage,
		AgentMessage:     html.EscapeString(completion.Content),
		Prompt:           builder.SystemPrompt(),
		ContextDocIds:    builder.ContextDocIds(),
		PromptTokens:     int(completion.PromptTokens),
		CompletionTokens: int(completion.CompletionTokens),
		Model:            agent.Model,
		CreatedAt:        sentAt,
	}
	if err := uow.MessageRepository().Create(ctx, &message); err != nil {
		return nil, err
	}

	conversation.AgentId = agent.Id
	conversation.CollectionId = collection.Id
	conversation.PromptTokens += int(completion.PromptTokens)
	conversation.CompletionTokens += int(completion.CompletionTokens)

	if firstExchange {
		state = stateTitleAttempted
		if title, titleErr := s.generateTitle(ctx, userMessage, message.AgentMessage); titleErr != nil {
			// A failed title never fails the exchange.
			s.log.Warn("conversation", "title generation failed", map[string]interface{}{
				"conversation_id": conversation.Id.String(),
				"error":           titleErr.Error(),
			})
		} else if title != "" {
			conversation.Name = title
		}
	}

	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	state = stateCommitted

	s.log.Debug("conversation", "exchange committed", map[string]interface{}{
		"conversation_id": conversation.Id.String(),
		"message_id":      message.Id.String(),
		"state":           string(state),
	})

	s.publishMessageCreated(ctx, user, conversation, &message)

	// Quota alert runs on a fresh unit of work, after the exchange is
	// already durable.
	_, alert, err := s.quotaEnforcer.Remaining(ctx, s.uowFactory.NewUnitOfWork(ctx), user)
	if err != nil {
		s.log.Warn("conversation", "failed to compute remaining quota", map[string]interface{}{"error": err.Error()})
		alert = nil
	}

	return &dto.ChatResponse{
		Conversation: *mapConversationResponse(conversation),
		Exchange:     *mapMessageResponse(&message),
		QuotaAlert:   alert,
	}, nil
}

// retrieveContext queries the module's active collection. Retrieval is
// part of the exchange transaction: without an active collection or a
// reachable vector store the exchange aborts before anything persists.
// The resolved collection comes back too so the exchange can record
// which material it drew from.
func (s *conversationService) retrieveContext(ctx context.Context, uow unitofwork.UnitOfWork, moduleId uuid.UUID, query string) (*entity.Collection, []chroma.QueryResult, error) {
	collection, err := uow.CollectionRepository().FindActiveByModule(ctx, moduleId)
	if err != nil {
		return nil, nil, err
	}
	if collection == nil {
		return nil, nil, &dto.NotFoundError{Resource: "active collection"}
	}

	handle, err := s.gateway.GetCollection(ctx, collection.Name)
	if err != nil {
		s.log.Warn("conversation", "vector collection unavailable, rolling back exchange", map[string]interface{}{
			"collection": collection.Name,
			"error":      err.Error(),
		})
		return nil, nil, fmt.Errorf("vector collection %s unavailable: %w", collection.Name, err)
	}

	results, err := handle.Query(ctx, query, collection.MaxResults)
	if err != nil {
		s.log.Warn("conversation", "context retrieval failed, rolling back exchange", map[string]interface{}{
			"collection": collection.Name,
			"error":      err.Error(),
		})
		return nil, nil, fmt.Errorf("context retrieval on %s failed: %w", collection.Name, err)
	}
	return collection, results, nil
}

func (s *conversationService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID, contextWindow int) ([]*entity.Message, error) {
	if contextWindow <= 0 {
		return nil, nil
	}

	// Newest first with the window as limit, then reversed so the
	// prompt reads oldest to newest.
	turns, err := uow.MessageRepository().FindAllByConversation(ctx, conversationId,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: contextWindow},
	)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// generateTitle asks the title model for a short name, seeding it with
// the opening question and the answer the agent just gave.
func (s *conversationService) generateTitle(ctx context.Context, firstMessage, answer string) (string, error) {
	completion, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleUser, Content: firstMessage},
		{Role: constant.ChatMessageRoleAssistant, Content: answer},
		{Role: constant.ChatMessageRoleUser, Content: constant.TitlePrompt},
	}, llm.WithModel(s.titleModel))
	if err != nil {
		return "", err
	}
	title := strings.Trim(strings.TrimSpace(completion.Content), `"`)
	if len(title) > 255 {
		title = title[:255]
	}
	return title, nil
}

func (s *conversationService) publishMessageCreated(ctx context.Context, user *entity.User, conversation *entity.Conversation, message *entity.Message) {
	event := dto.MessageCreatedEvent{
		MessageId:        message.Id,
		ConversationId:   conversation.Id,
		ModuleId:         user.ModuleId,
		UserId:           user.Id,
		PromptTokens:     int64(message.PromptTokens),
		CompletionTokens: int64(message.CompletionTokens),
		CreatedAt:        message.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error("conversation", "failed to marshal usage event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Error("conversation", "failed to publish usage event", map[string]interface{}{"error": err.Error()})
	}
}

func (s *conversationService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationResponse, len(conversations))
	for i, conversation := range conversations {
		res[i] = mapConversationResponse(conversation)
	}
	return res, nil
}

func (s *conversationService) FetchMessages(ctx context.Context, kind FetchKind, userId uuid.UUID, urlId string) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindByUrlId(ctx, urlId)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, &dto.NotFoundError{Resource: "conversation"}
	}

	switch kind {
	case FetchAsOwner:
		if conversation.UserId != userId {
			return nil, &dto.OwnershipError{Resource: "conversation"}
		}
	case FetchAsAdmin:
		user, err := s.loadUser(ctx, uow, userId)
		if err != nil {
			return nil, err
		}
		if !user.IsAdmin || user.ModuleId != conversation.ModuleId {
			return nil, &dto.OwnershipError{Resource: "conversation"}
		}
	default:
		return nil, fmt.Errorf("unknown fetch kind %d", kind)
	}

	turns, err := uow.MessageRepository().FindAllByConversation(ctx, conversation.Id,
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageResponse, len(turns))
	for i, turn := range turns {
		res[i] = mapMessageResponse(turn)
	}
	return res, nil
}

func (s *conversationService) Rename(ctx context.Context, userId uuid.UUID, urlId string, req *dto.RenameConversationRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.loadOwned(ctx, uow, userId, urlId)
	if err != nil {
		return nil, err
	}

	conversation.Name = req.Title
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return nil, err
	}
	return mapConversationResponse(conversation), nil
}

func (s *conversationService) Delete(ctx context.Context, userId uuid.UUID, urlId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	conversation, err := s.loadOwned(ctx, uow, userId, urlId)
	if err != nil {
		return err
	}

	// A share must not outlive its conversation.
	share, err := uow.SharedConversationRepository().FindByConversation(ctx, conversation.Id)
	if err != nil {
		return err
	}
	if share != nil {
		if err := uow.SharedConversationRepository().Delete(ctx, share.Id); err != nil {
			return err
		}
		s.invalidateSharedView(ctx, share.SharedUrlId)
	}

	if err := uow.ConversationRepository().Delete(ctx, conversation.Id); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *conversationService) RateMessage(ctx context.Context, userId uuid.UUID, urlId string, req *dto.RateMessageRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.loadOwned(ctx, uow, userId, urlId)
	if err != nil {
		return err
	}

	message, err := uow.MessageRepository().FindOne(ctx,
		specification.ByID{ID: req.MessageId},
		specification.ByConversationID{ConversationID: conversation.Id},
	)
	if err != nil {
		return err
	}
	if message == nil {
		return &dto.NotFoundError{Resource: "message"}
	}

	message.Helpful = req.Helpful
	return uow.MessageRepository().Update(ctx, message)
}

func (s *conversationService) Share(ctx context.Context, userId uuid.UUID, urlId string) (*dto.ShareConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.loadOwned(ctx, uow, userId, urlId)
	if err != nil {
		return nil, err
	}

	existing, err := uow.SharedConversationRepository().FindByConversation(ctx, conversation.Id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &dto.ConflictError{Message: "conversation is already shared"}
	}

	share := entity.SharedConversation{
		Id:             uuid.New(),
		SharedUrlId:    strings.ReplaceAll(uuid.NewString(), "-", ""),
		ConversationId: conversation.Id,
		CreatedAt:      time.Now(),
	}
	if err := uow.SharedConversationRepository().Create(ctx, &share); err != nil {
		return nil, err
	}
	return &dto.ShareConversationResponse{SharedUrlId: share.SharedUrlId}, nil
}

func (s *conversationService) Unshare(ctx context.Context, userId uuid.UUID, urlId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.loadOwned(ctx, uow, userId, urlId)
	if err != nil {
		return err
	}

	share, err := uow.SharedConversationRepository().FindByConversation(ctx, conversation.Id)
	if err != nil {
		return err
	}
	if share == nil {
		return &dto.NotFoundError{Resource: "share"}
	}

	if err := uow.SharedConversationRepository().Delete(ctx, share.Id); err != nil {
		return err
	}
	s.invalidateSharedView(ctx, share.SharedUrlId)
	return nil
}

func (s *conversationService) GetSharedView(ctx context.Context, sharedUrlId string) (*dto.SharedConversationView, error) {
	if cached := s.cachedSharedView(ctx, sharedUrlId); cached != nil {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	share, err := uow.SharedConversationRepository().FindBySharedUrlId(ctx, sharedUrlId)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, &dto.NotFoundError{Resource: "shared conversation"}
	}

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: share.ConversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, &dto.NotFoundError{Resource: "shared conversation"}
	}

	// Visibility is frozen at share time: only exchanges created
	// strictly before the share exist for the public view.
	turns, err := uow.MessageRepository().FindAllByConversation(ctx, conversation.Id,
		specification.CreatedBefore{Cutoff: share.CreatedAt},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	view := &dto.SharedConversationView{
		Title:    conversation.Name,
		SharedAt: share.CreatedAt.Format(time.RFC3339),
		Messages: make([]dto.MessageResponse, len(turns)),
	}
	for i, turn := range turns {
		view.Messages[i] = *mapMessageResponse(turn)
	}

	s.cacheSharedView(ctx, sharedUrlId, view)
	return view, nil
}

func (s *conversationService) cachedSharedView(ctx context.Context, sharedUrlId string) *dto.SharedConversationView {
	if s.redisClient == nil {
		return nil
	}
	raw, err := s.redisClient.Get(ctx, sharedViewCacheKey(sharedUrlId)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("conversation", "shared view cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
	var view dto.SharedConversationView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil
	}
	return &view
}

func (s *conversationService) cacheSharedView(ctx context.Context, sharedUrlId string, view *dto.SharedConversationView) {
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, sharedViewCacheKey(sharedUrlId), raw, sharedViewCacheTTL).Err(); err != nil {
		s.log.Warn("conversation", "shared view cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *conversationService) invalidateSharedView(ctx context.Context, sharedUrlId string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, sharedViewCacheKey(sharedUrlId)).Err(); err != nil {
		s.log.Warn("conversation", "shared view cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func sharedViewCacheKey(sharedUrlId string) string {
	return "shared_view:" + sharedUrlId
}

func (s *conversationService) loadUser(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &dto.NotFoundError{Resource: "user"}
	}
	return user, nil
}

func (s *conversationService) loadOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, urlId string) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindByUrlId(ctx, urlId)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, &dto.NotFoundError{Resource: "conversation"}
	}
	if conversation.UserId != userId {
		return nil, &dto.OwnershipError{Resource: "conversation"}
	}
	return conversation, nil
}

func mapConversationResponse(conversation *entity.Conversation) *dto.ConversationResponse {
	return &dto.ConversationResponse{
		UrlId:     conversation.UrlId,
		Title:     conversation.Name,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
}

func mapMessageResponse(message *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:           message.Id,
		UserMessage:  message.UserMessage,
		AgentMessage: message.AgentMessage,
		Helpful:      message.Helpful,
		CreatedAt:    message.CreatedAt,
	}
}
