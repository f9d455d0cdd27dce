package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/pkg/logger"
	"edu-chat-be/internal/repository/specification"
	"edu-chat-be/internal/repository/unitofwork"
	"edu-chat-be/pkg/chroma"
	"edu-chat-be/pkg/events"
	"edu-chat-be/pkg/extract"
	pkgNats "edu-chat-be/pkg/nats"

	"github.com/google/uuid"
)

type IEmbeddingService interface {
	// Ingest runs the full document pipeline: persist the blob, extract
	// its text, write the vector document and commit the relational row.
	// Any failure undoes every earlier step.
	Ingest(ctx context.Context, collectionName string, uploadedBy *uuid.UUID, fileName, mimeType string, content []byte) (*dto.EmbeddingResponse, error)
	// Retract removes a document. The vector-store delete comes first
	// and a failure there aborts the whole retraction.
	Retract(ctx context.Context, embeddingId uuid.UUID) error
}

type embeddingService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        chroma.Gateway
	extractor      *extract.TikaClient
	uploadDir      string
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewEmbeddingService(
	uowFactory unitofwork.RepositoryFactory,
	gateway chroma.Gateway,
	extractor *extract.TikaClient,
	uploadDir string,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IEmbeddingService {
	return &embeddingService{
		uowFactory:     uowFactory,
		gateway:        gateway,
		extractor:      extractor,
		uploadDir:      uploadDir,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *embeddingService) Ingest(ctx context.Context, collectionName string, uploadedBy *uuid.UUID, fileName, mimeType string, content []byte) (*dto.EmbeddingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	collection, err := uow.CollectionRepository().FindByName(ctx, collectionName)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, &dto.NotFoundError{Resource: "collection"}
	}

	embeddingId := uuid.New()
	blobPath := filepath.Join(s.uploadDir, embeddingId.String()+filepath.Ext(fileName))
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}
	if err := os.WriteFile(blobPath, content, 0o644); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	text, err := s.extractor.ExtractText(ctx, content, mimeType)
	if err != nil {
		s.removeBlob(blobPath)
		return nil, &dto.ExtractionError{FileName: fileName, Reason: err.Error()}
	}

	// The blob only lives for the duration of the pipeline. The committed
	// row never references it, so Path stays empty.
	record := entity.Embedding{
		Id:           embeddingId,
		CollectionId: collection.Id,
		UserId:       uploadedBy,
		Name:         fileName,
		Size:         int64(len(content)),
		Mime:         mimeType,
		Content:      text,
		CreatedAt:    time.Now(),
	}
	if err := uow.EmbeddingRepository().Create(ctx, &record); err != nil {
		s.removeBlob(blobPath)
		return nil, err
	}

	handle, err := s.gateway.GetCollection(ctx, collectionName)
	if err != nil {
		s.removeBlob(blobPath)
		return nil, &dto.EmbeddingStoreError{Collection: collectionName, Reason: err.Error()}
	}

	// The row id doubles as the vector document id so either store can
	// locate the other's record.
	err = handle.Add(ctx, []chroma.Document{{
		Id:      embeddingId.String(),
		Content: text,
		Metadata: map[string]interface{}{
			"file_name": fileName,
			"mime":      mimeType,
			"size":      record.Size,
		},
	}})
	if err != nil {
		s.removeBlob(blobPath)
		return nil, &dto.EmbeddingStoreError{Collection: collectionName, Reason: err.Error()}
	}

	if err := uow.Commit(); err != nil {
		// The vector write already happened; undo it so the stores stay
		// aligned without waiting for the next sync run.
		if delErr := handle.Delete(ctx, []string{embeddingId.String()}); delErr != nil {
			s.log.Error("embedding", "failed to undo vector write after commit failure", map[string]interface{}{
				"embedding_id": embeddingId.String(),
				"error":        delErr.Error(),
			})
		}
		s.removeBlob(blobPath)
		return nil, err
	}

	// Both stores hold the document now, so the transient blob is done.
	s.removeBlob(blobPath)

	s.publishAudit(ctx, events.TypeDocumentIngested, map[string]interface{}{
		"collection":   collectionName,
		"embedding_id": embeddingId.String(),
		"file_name":    fileName,
	})

	return &dto.EmbeddingResponse{
		Id:        record.Id,
		Name:      record.Name,
		Size:      record.Size,
		Mime:      record.Mime,
		CreatedAt: record.CreatedAt,
	}, nil
}

func (s *embeddingService) Retract(ctx context.Context, embeddingId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.EmbeddingRepository().FindOne(ctx, specification.ByID{ID: embeddingId})
	if err != nil {
		return err
	}
	if record == nil {
		return &dto.NotFoundError{Resource: "document"}
	}

	collection, err := uow.CollectionRepository().FindOne(ctx, specification.ByID{ID: record.CollectionId})
	if err != nil {
		return err
	}
	if collection == nil {
		return &dto.NotFoundError{Resource: "collection"}
	}

	handle, err := s.gateway.GetCollection(ctx, collection.Name)
	if err != nil && err != chroma.ErrNotFound {
		return &dto.EmbeddingStoreError{Collection: collection.Name, Reason: err.Error()}
	}
	if handle != nil {
		if err := handle.Delete(ctx, []string{record.Id.String()}); err != nil {
			return &dto.EmbeddingStoreError{Collection: collection.Name, Reason: err.Error()}
		}
	}

	// Blob cleanup is non-fatal; the row delete must still happen.
	s.removeBlob(record.Path)

	if err := uow.EmbeddingRepository().Delete(ctx, record.Id); err != nil {
		return err
	}

	s.publishAudit(ctx, events.TypeDocumentRetracted, map[string]interface{}{
		"collection":   collection.Name,
		"embedding_id": record.Id.String(),
	})
	return nil
}

func (s *embeddingService) removeBlob(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("embedding", "failed to remove stored blob", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

func (s *embeddingService) publishAudit(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("embedding", "failed to publish audit event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
