package service

import (
	"context"
	"time"

	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/pkg/logger"
	"edu-chat-be/internal/repository/unitofwork"
	"edu-chat-be/pkg/chroma"
	"edu-chat-be/pkg/events"
	pkgNats "edu-chat-be/pkg/nats"

	"github.com/google/uuid"
)

type ICollectionService interface {
	// Create adds the collection to both stores. The relational row is
	// only committed once the vector store accepted the collection.
	Create(ctx context.Context, req *dto.CreateCollectionRequest) (*dto.CollectionResponse, error)
	// Delete removes the collection from both stores. The vector store
	// deletion happens before the relational transaction commits, so a
	// vector-store failure aborts the whole operation.
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]*dto.CollectionResponse, error)
	ListDocuments(ctx context.Context, name string) ([]*dto.EmbeddingResponse, error)
}

type collectionService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        chroma.Gateway
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewCollectionService(
	uowFactory unitofwork.RepositoryFactory,
	gateway chroma.Gateway,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) ICollectionService {
	return &collectionService{
		uowFactory:     uowFactory,
		gateway:        gateway,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *collectionService) Create(ctx context.Context, req *dto.CreateCollectionRequest) (*dto.CollectionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.CollectionRepository().FindByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &dto.ConflictError{Message: "a collection with this name already exists"}
	}

	collection := entity.Collection{
		Id:         uuid.New(),
		Name:       req.Name,
		MaxResults: req.MaxResults,
		Active:     true,
		ModuleId:   req.ModuleId,
		CreatedAt:  time.Now(),
	}
	if collection.MaxResults == 0 {
		collection.MaxResults = 3
	}

	if err := uow.CollectionRepository().Create(ctx, &collection); err != nil {
		return nil, err
	}

	_, err = s.gateway.GetOrCreateCollection(ctx, collection.Name, map[string]interface{}{
		"max_results": collection.MaxResults,
	})
	if err != nil {
		return nil, &dto.EmbeddingStoreError{Collection: collection.Name, Reason: err.Error()}
	}

	if err := uow.Commit(); err != nil {
		// The vector collection now exists without a row; the next sync
		// run recreates the row from it.
		return nil, err
	}

	s.publishAudit(ctx, events.TypeCollectionCreated, map[string]interface{}{
		"collection": collection.Name,
	})
	return mapCollectionResponse(&collection), nil
}

func (s *collectionService) Delete(ctx context.Context, name string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	collection, err := uow.CollectionRepository().FindByName(ctx, name)
	if err != nil {
		return err
	}
	if collection == nil {
		return &dto.NotFoundError{Resource: "collection"}
	}

	if err := uow.EmbeddingRepository().DeleteAllByCollectionUnscoped(ctx, collection.Id); err != nil {
		return err
	}
	if err := uow.CollectionRepository().DeleteByNameUnscoped(ctx, name); err != nil {
		return err
	}

	// Vector store last, while the relational deletes are still
	// uncommitted: a failure here rolls everything back.
	if err := s.gateway.DeleteCollection(ctx, name); err != nil && err != chroma.ErrNotFound {
		return &dto.EmbeddingStoreError{Collection: name, Reason: err.Error()}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishAudit(ctx, events.TypeCollectionDeleted, map[string]interface{}{
		"collection": name,
	})
	return nil
}

func (s *collectionService) List(ctx context.Context) ([]*dto.CollectionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	collections, err := uow.CollectionRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CollectionResponse, len(collections))
	for i, collection := range collections {
		res[i] = mapCollectionResponse(collection)
	}
	return res, nil
}

func (s *collectionService) ListDocuments(ctx context.Context, name string) ([]*dto.EmbeddingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	collection, err := uow.CollectionRepository().FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, &dto.NotFoundError{Resource: "collection"}
	}

	embeddings, err := uow.EmbeddingRepository().FindAllByCollection(ctx, collection.Id)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.EmbeddingResponse, len(embeddings))
	for i, emb := range embeddings {
		res[i] = &dto.EmbeddingResponse{
			Id:        emb.Id,
			Name:      emb.Name,
			Size:      emb.Size,
			Mime:      emb.Mime,
			CreatedAt: emb.CreatedAt,
		}
	}
	return res, nil
}

func (s *collectionService) publishAudit(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("collection", "failed to publish audit event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func mapCollectionResponse(collection *entity.Collection) *dto.CollectionResponse {
	return &dto.CollectionResponse{
		Id:         collection.Id,
		Name:       collection.Name,
		MaxResults: collection.MaxResults,
		Active:     collection.Active,
		ModuleId:   collection.ModuleId,
		CreatedAt:  collection.CreatedAt,
	}
}
