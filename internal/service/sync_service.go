package service

import (
	"context"
	"fmt"
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

type ISyncService interface {
	// Validate compares both stores without mutating either. A
	// collection missing on either side is structural and aborts the
	// check immediately; every other divergence accumulates.
	Validate(ctx context.Context) (*dto.ValidationReport, error)
	// Sync repairs the relational database from the vector store, which
	// is ground truth. Rows are created, updated and hard deleted,
	// bypassing soft delete, until both stores agree.
	Sync(ctx context.Context) (*dto.SyncReport, error)
}

type syncService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        chroma.Gateway
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewSyncService(
	uowFactory unitofwork.RepositoryFactory,
	gateway chroma.Gateway,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) ISyncService {
	return &syncService{
		uowFactory:     uowFactory,
		gateway:        gateway,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *syncService) Validate(ctx context.Context) (*dto.ValidationReport, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	storeCollections, err := s.gateway.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	dbCollections, err := uow.CollectionRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	storeByName := make(map[string]chroma.CollectionInfo, len(storeCollections))
	for _, info := range storeCollections {
		storeByName[info.Name] = info
	}
	dbByName := make(map[string]*entity.Collection, len(dbCollections))
	for _, collection := range dbCollections {
		dbByName[collection.Name] = collection
	}

	var violations []dto.ConsistencyViolation
	if len(dbCollections) != len(storeCollections) {
		violations = append(violations, dto.ConsistencyViolation{
			Kind: dto.ViolationCollectionCountMismatch,
			Detail: fmt.Sprintf("database knows %d collections, the vector store %d",
				len(dbCollections), len(storeCollections)),
		})
	}

	// Structural checks next. A collection known to only one store makes
	// every deeper comparison meaningless, so the run aborts on the
	// first such finding.
	for _, info := range storeCollections {
		if _, ok := dbByName[info.Name]; !ok {
			return &dto.ValidationReport{
				Status: dto.ValidationFatal,
				Violations: append(violations, dto.ConsistencyViolation{
					Collection: info.Name,
					Kind:       dto.ViolationCollectionMissing,
					Detail:     "collection exists in the vector store but not in the database",
				}),
			}, nil
		}
	}
	for _, collection := range dbCollections {
		if _, ok := storeByName[collection.Name]; !ok {
			return &dto.ValidationReport{
				Status: dto.ValidationFatal,
				Violations: append(violations, dto.ConsistencyViolation{
					Collection: collection.Name,
					Kind:       dto.ViolationCollectionMissing,
					Detail:     "collection exists in the database but not in the vector store",
				}),
			}, nil
		}
	}

	for _, collection := range dbCollections {
		info := storeByName[collection.Name]

		if raw, ok := info.Metadata["max_results"]; ok {
			if v, ok := raw.(float64); ok && int(v) != collection.MaxResults {
				violations = append(violations, dto.ConsistencyViolation{
					Collection: collection.Name,
					Kind:       dto.ViolationMaxResultsMismatch,
					Detail:     fmt.Sprintf("max_results is %d in the database, %d in the vector store", collection.MaxResults, int(v)),
				})
			}
		}

		rows, err := uow.EmbeddingRepository().FindAllByCollection(ctx, collection.Id)
		if err != nil {
			return nil, err
		}
		if len(rows) != info.Count {
			violations = append(violations, dto.ConsistencyViolation{
				Collection: collection.Name,
				Kind:       dto.ViolationCountMismatch,
				Detail:     "document counts differ between the stores",
			})
		}

		handle, err := s.gateway.GetCollection(ctx, collection.Name)
		if err != nil {
			return nil, err
		}
		docs, err := handle.GetAll(ctx)
		if err != nil {
			return nil, err
		}

		docById := make(map[string]chroma.Document, len(docs))
		for _, doc := range docs {
			docById[doc.Id] = doc
		}
		rowById := make(map[string]*entity.Embedding, len(rows))
		for _, row := range rows {
			rowById[row.Id.String()] = row
		}

		for _, doc := range docs {
			row, ok := rowById[doc.Id]
			if !ok {
				violations = append(violations, dto.ConsistencyViolation{
					Collection: collection.Name,
					Kind:       dto.ViolationRowMissing,
					DocumentId: doc.Id,
					Detail:     "vector document has no database record",
				})
				continue
			}
			if row.Content != doc.Content {
				violations = append(violations, dto.ConsistencyViolation{
					Collection: collection.Name,
					Kind:       dto.ViolationContentMismatch,
					DocumentId: doc.Id,
					Detail:     "stored text differs between the stores",
				})
			}
			if name, ok := doc.Metadata["file_name"].(string); ok && name != row.Name {
				violations = append(violations, dto.ConsistencyViolation{
					Collection: collection.Name,
					Kind:       dto.ViolationFilenameMismatch,
					DocumentId: doc.Id,
					Detail:     fmt.Sprintf("file name is %q in the database, %q in the vector store", row.Name, name),
				})
			}
			if size, ok := metadataSize(doc.Metadata); ok && size != row.Size {
				violations = append(violations, dto.ConsistencyViolation{
					Collection: collection.Name,
					Kind:       dto.ViolationSizeMismatch,
					DocumentId: doc.Id,
					Detail:     fmt.Sprintf("size is %d in the database, %d in the vector store", row.Size, size),
				})
			}
		}
		for _, row := range rows {
			if _, ok := docById[row.Id.String()]; !ok {
				violations = append(violations, dto.ConsistencyViolation{
					Collection: collection.Name,
					Kind:       dto.ViolationDocumentMissing,
					DocumentId: row.Id.String(),
					Detail:     "database record has no vector document",
				})
			}
		}
	}

	status := dto.ValidationConsistent
	if len(violations) > 0 {
		status = dto.ValidationInconsistent
	}
	return &dto.ValidationReport{Status: status, Violations: violations}, nil
}

// metadataSize reads the size metadata key. Numbers decoded from JSON
// arrive as float64, but documents written in-process may carry the
// original integer type.
func metadataSize(metadata map[string]interface{}) (int64, bool) {
	switch v := metadata["size"].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

func (s *syncService) Sync(ctx context.Context) (*dto.SyncReport, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	storeCollections, err := s.gateway.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	dbCollections, err := uow.CollectionRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	storeByName := make(map[string]chroma.CollectionInfo, len(storeCollections))
	for _, info := range storeCollections {
		storeByName[info.Name] = info
	}
	dbByName := make(map[string]*entity.Collection, len(dbCollections))
	for _, collection := range dbCollections {
		dbByName[collection.Name] = collection
	}

	report := &dto.SyncReport{}

	// Database collections the vector store no longer knows are purged
	// entirely, soft-delete state included.
	for _, collection := range dbCollections {
		if _, ok := storeByName[collection.Name]; ok {
			continue
		}
		if err := uow.EmbeddingRepository().DeleteAllByCollectionUnscoped(ctx, collection.Id); err != nil {
			return nil, err
		}
		if err := uow.CollectionRepository().DeleteByNameUnscoped(ctx, collection.Name); err != nil {
			return nil, err
		}
		report.CollectionsDeleted++
	}

	for _, info := range storeCollections {
		collection, ok := dbByName[info.Name]
		if !ok {
			collection = &entity.Collection{
				Id:        uuid.New(),
				Name:      info.Name,
				Active:    false,
				CreatedAt: time.Now(),
			}
			collection.MaxResults = 3
			if raw, ok := info.Metadata["max_results"]; ok {
				if v, ok := raw.(float64); ok && v > 0 {
					collection.MaxResults = int(v)
				}
			}
			if err := uow.CollectionRepository().Create(ctx, collection); err != nil {
				return nil, err
			}
			report.CollectionsCreated++
		}

		if err := s.syncCollection(ctx, uow, collection, report); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("sync", "store synchronized", map[string]interface{}{
		"collections_created": report.CollectionsCreated,
		"collections_deleted": report.CollectionsDeleted,
		"embeddings_created":  report.EmbeddingsCreated,
		"embeddings_updated":  report.EmbeddingsUpdated,
		"embeddings_deleted":  report.EmbeddingsDeleted,
	})

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeStoreSynced,
			Data: map[string]interface{}{
				"collections_created": report.CollectionsCreated,
				"collections_deleted": report.CollectionsDeleted,
				"embeddings_created":  report.EmbeddingsCreated,
				"embeddings_updated":  report.EmbeddingsUpdated,
				"embeddings_deleted":  report.EmbeddingsDeleted,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("sync", "failed to publish audit event", map[string]interface{}{"error": err.Error()})
		}
	}

	return report, nil
}

func (s *syncService) syncCollection(ctx context.Context, uow unitofwork.UnitOfWork, collection *entity.Collection, report *dto.SyncReport) error {
	handle, err := s.gateway.GetCollection(ctx, collection.Name)
	if err != nil {
		return err
	}
	docs, err := handle.GetAll(ctx)
	if err != nil {
		return err
	}
	rows, err := uow.EmbeddingRepository().FindAllByCollection(ctx, collection.Id)
	if err != nil {
		return err
	}

	docById := make(map[string]chroma.Document, len(docs))
	for _, doc := range docs {
		docById[doc.Id] = doc
	}
	rowById := make(map[string]*entity.Embedding, len(rows))
	for _, row := range rows {
		rowById[row.Id.String()] = row
	}

	for _, doc := range docs {
		row, ok := rowById[doc.Id]
		if !ok {
			id, err := uuid.Parse(doc.Id)
			if err != nil {
				s.log.Warn("sync", "vector document id is not a uuid, skipping", map[string]interface{}{
					"collection":  collection.Name,
					"document_id": doc.Id,
				})
				continue
			}
			record := entity.Embedding{
				Id:           id,
				CollectionId: collection.Id,
				Content:      doc.Content,
				CreatedAt:    time.Now(),
			}
			if name, ok := doc.Metadata["file_name"].(string); ok {
				record.Name = name
			}
			if mime, ok := doc.Metadata["mime"].(string); ok {
				record.Mime = mime
			}
			if size, ok := metadataSize(doc.Metadata); ok {
				record.Size = size
			}
			if err := uow.EmbeddingRepository().Create(ctx, &record); err != nil {
				return err
			}
			report.EmbeddingsCreated++
			continue
		}
		if row.Content != doc.Content {
			row.Content = doc.Content
			if err := uow.EmbeddingRepository().Update(ctx, row); err != nil {
				return err
			}
			report.EmbeddingsUpdated++
		}
	}

	for _, row := range rows {
		if _, ok := docById[row.Id.String()]; !ok {
			if err := uow.EmbeddingRepository().DeleteUnscoped(ctx, row.Id); err != nil {
				return err
			}
			report.EmbeddingsDeleted++
		}
	}
	return nil
}
