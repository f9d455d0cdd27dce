package service

import (
	"context"
	"testing"
	"time"

	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/repository/contract"
	"edu-chat-be/internal/repository/specification"
	"edu-chat-be/internal/repository/unitofwork"
	"edu-chat-be/pkg/chroma"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeCollection struct {
	chroma.Collection
	id       string
	name     string
	metadata map[string]interface{}
	docs     []chroma.Document
}

func (f *fakeCollection) Id() string   { return f.id }
func (f *fakeCollection) Name() string { return f.name }

func (f *fakeCollection) GetAll(ctx context.Context) ([]chroma.Document, error) {
	return f.docs, nil
}

type fakeGateway struct {
	chroma.Gateway
	collections map[string]*fakeCollection
}

func (f *fakeGateway) ListCollections(ctx context.Context) ([]chroma.CollectionInfo, error) {
	infos := make([]chroma.CollectionInfo, 0, len(f.collections))
	for _, col := range f.collections {
		infos = append(infos, chroma.CollectionInfo{
			Id:       col.id,
			Name:     col.name,
			Metadata: col.metadata,
			Count:    len(col.docs),
		})
	}
	return infos, nil
}

func (f *fakeGateway) GetCollection(ctx context.Context, name string) (chroma.Collection, error) {
	col, ok := f.collections[name]
	if !ok {
		return nil, chroma.ErrNotFound
	}
	return col, nil
}

type fakeCollectionRepo struct {
	contract.CollectionRepository
	rows    []*entity.Collection
	created []*entity.Collection
	purged  []string
}

func (f *fakeCollectionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Collection, error) {
	return f.rows, nil
}

func (f *fakeCollectionRepo) Create(ctx context.Context, collection *entity.Collection) error {
	f.created = append(f.created, collection)
	return nil
}

func (f *fakeCollectionRepo) DeleteByNameUnscoped(ctx context.Context, name string) error {
	f.purged = append(f.purged, name)
	return nil
}

type fakeEmbeddingRepo struct {
	contract.EmbeddingRepository
	byCollection map[uuid.UUID][]*entity.Embedding
	created      []*entity.Embedding
	updated      []*entity.Embedding
	deleted      []uuid.UUID
	purgedAll    []uuid.UUID
}

func (f *fakeEmbeddingRepo) FindAllByCollection(ctx context.Context, collectionId uuid.UUID) ([]*entity.Embedding, error) {
	return f.byCollection[collectionId], nil
}

func (f *fakeEmbeddingRepo) Create(ctx context.Context, embedding *entity.Embedding) error {
	f.created = append(f.created, embedding)
	return nil
}

func (f *fakeEmbeddingRepo) Update(ctx context.Context, embedding *entity.Embedding) error {
	f.updated = append(f.updated, embedding)
	return nil
}

func (f *fakeEmbeddingRepo) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeEmbeddingRepo) DeleteAllByCollectionUnscoped(ctx context.Context, collectionId uuid.UUID) error {
	f.purgedAll = append(f.purgedAll, collectionId)
	return nil
}

type fakeSyncUow struct {
	unitofwork.UnitOfWork
	collections *fakeCollectionRepo
	embeddings  *fakeEmbeddingRepo
	committed   bool
}

func (f *fakeSyncUow) Begin(ctx context.Context) error { return nil }
func (f *fakeSyncUow) Commit() error {
	f.committed = true
	return nil
}
func (f *fakeSyncUow) Rollback() error { return nil }

func (f *fakeSyncUow) CollectionRepository() contract.CollectionRepository { return f.collections }
func (f *fakeSyncUow) EmbeddingRepository() contract.EmbeddingRepository  { return f.embeddings }

type fakeFactory struct {
	uow *fakeSyncUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func newSyncFixture(gateway *fakeGateway, collections *fakeCollectionRepo, embeddings *fakeEmbeddingRepo) (ISyncService, *fakeSyncUow) {
	uow := &fakeSyncUow{collections: collections, embeddings: embeddings}
	svc := NewSyncService(&fakeFactory{uow: uow}, gateway, nil, noopLogger{})
	return svc, uow
}

func embeddingRow(collectionId uuid.UUID, content string) *entity.Embedding {
	return &entity.Embedding{
		Id:           uuid.New(),
		CollectionId: collectionId,
		Content:      content,
		CreatedAt:    time.Now(),
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("matching stores are consistent", func(t *testing.T) {
		collectionId := uuid.New()
		row := embeddingRow(collectionId, "First law.")
		gateway := &fakeGateway{collections: map[string]*fakeCollection{
			"physics": {id: "col-1", name: "physics", docs: []chroma.Document{
				{Id: row.Id.String(), Content: "First law."},
			}},
		}}
		svc, _ := newSyncFixture(gateway,
			&fakeCollectionRepo{rows: []*entity.Collection{{Id: collectionId, Name: "physics"}}},
			&fakeEmbeddingRepo{byCollection: map[uuid.UUID][]*entity.Embedding{collectionId: {row}}},
		)

		report, err := svc.Validate(ctx)

		assert.NoError(t, err)
		assert.Equal(t, dto.ValidationConsistent, report.Status)
		assert.Empty(t, report.Violations)
	})

	t.Run("store only collection aborts as fatal", func(t *testing.T) {
		gateway := &fakeGateway{collections: map[string]*fakeCollection{
			"orphan": {id: "col-9", name: "orphan"},
		}}
		svc, _ := newSyncFixture(gateway, &fakeCollectionRepo{}, &fakeEmbeddingRepo{})

		report, err := svc.Validate(ctx)

		assert.NoError(t, err)
		assert.Equal(t, dto.ValidationFatal, report.Status)
		assert.Len(t, report.Violations, 2)
		assert.Equal(t, dto.ViolationCollectionCountMismatch, report.Violations[0].Kind)
		assert.Equal(t, dto.ViolationCollectionMissing, report.Violations[1].Kind)
		assert.Equal(t, "orphan", report.Violations[1].Collection)
	})

	t.Run("database only collection aborts as fatal", func(t *testing.T) {
		gateway := &fakeGateway{collections: map[string]*fakeCollection{}}
		svc, _ := newSyncFixture(gateway,
			&fakeCollectionRepo{rows: []*entity.Collection{{Id: uuid.New(), Name: "ghost"}}},
			&fakeEmbeddingRepo{},
		)

		report, err := svc.Validate(ctx)

		assert.NoError(t, err)
		assert.Equal(t, dto.ValidationFatal, report.Status)
		last := report.Violations[len(report.Violations)-1]
		assert.Equal(t, dto.ViolationCollectionMissing, last.Kind)
		assert.Equal(t, "ghost", last.Collection)
	})

	t.Run("document level divergences accumulate", func(t *testing.T) {
		collectionId := uuid.New()
		matching := embeddingRow(collectionId, "First law.")
		drifted := embeddingRow(collectionId, "Old text.")
		dbOnly := embeddingRow(collectionId, "Never embedded.")
		storeOnlyId := uuid.New().String()

		gateway := &fakeGateway{collections: map[string]*fakeCollection{
			"physics": {id: "col-1", name: "physics", docs: []chroma.Document{
				{Id: matching.Id.String(), Content: "First law."},
				{Id: drifted.Id.String(), Content: "New text."},
				{Id: storeOnlyId, Content: "Unknown to the database."},
			}},
		}}
		svc, _ := newSyncFixture(gateway,
			&fakeCollectionRepo{rows: []*entity.Collection{{Id: collectionId, Name: "physics"}}},
			&fakeEmbeddingRepo{byCollection: map[uuid.UUID][]*entity.Embedding{
				collectionId: {matching, drifted, dbOnly},
			}},
		)

		report, err := svc.Validate(ctx)

		assert.NoError(t, err)
		assert.Equal(t, dto.ValidationInconsistent, report.Status)

		kinds := make(map[string]int)
		for _, v := range report.Violations {
			kinds[v.Kind]++
		}
		assert.Equal(t, 1, kinds[dto.ViolationCountMismatch])
		assert.Equal(t, 1, kinds[dto.ViolationContentMismatch])
		assert.Equal(t, 1, kinds[dto.ViolationRowMissing])
		assert.Equal(t, 1, kinds[dto.ViolationDocumentMissing])
	})

	t.Run("metadata divergences accumulate", func(t *testing.T) {
		collectionId := uuid.New()
		row := embeddingRow(collectionId, "First law.")
		row.Name = "notes.txt"
		row.Size = 120

		gateway := &fakeGateway{collections: map[string]*fakeCollection{
			"physics": {
				id:       "col-1",
				name:     "physics",
				metadata: map[string]interface{}{"max_results": float64(5)},
				docs: []chroma.Document{
					{Id: row.Id.String(), Content: "First law.", Metadata: map[string]interface{}{
						"file_name": "renamed.txt",
						"size":      float64(480),
					}},
				},
			},
		}}
		svc, _ := newSyncFixture(gateway,
			&fakeCollectionRepo{rows: []*entity.Collection{{Id: collectionId, Name: "physics", MaxResults: 3}}},
			&fakeEmbeddingRepo{byCollection: map[uuid.UUID][]*entity.Embedding{collectionId: {row}}},
		)

		report, err := svc.Validate(ctx)

		assert.NoError(t, err)
		assert.Equal(t, dto.ValidationInconsistent, report.Status)

		kinds := make(map[string]int)
		for _, v := range report.Violations {
			kinds[v.Kind]++
		}
		assert.Equal(t, 1, kinds[dto.ViolationMaxResultsMismatch])
		assert.Equal(t, 1, kinds[dto.ViolationFilenameMismatch])
		assert.Equal(t, 1, kinds[dto.ViolationSizeMismatch])
		assert.Equal(t, 0, kinds[dto.ViolationContentMismatch])
	})
}

func TestSync(t *testing.T) {
	ctx := context.Background()

	t.Run("purges database collections unknown to the store", func(t *testing.T) {
		staleId := uuid.New()
		gateway := &fakeGateway{collections: map[string]*fakeCollection{}}
		collections := &fakeCollectionRepo{rows: []*entity.Collection{{Id: staleId, Name: "stale"}}}
		embeddings := &fakeEmbeddingRepo{}
		svc, uow := newSyncFixture(gateway, collections, embeddings)

		report, err := svc.Sync(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, report.CollectionsDeleted)
		assert.Equal(t, []string{"stale"}, collections.purged)
		assert.Equal(t, []uuid.UUID{staleId}, embeddings.purgedAll)
		assert.True(t, uow.committed)
	})

	t.Run("recreates rows for store only collections and documents", func(t *testing.T) {
		docId := uuid.New()
		gateway := &fakeGateway{collections: map[string]*fakeCollection{
			"physics": {id: "col-1", name: "physics", docs: []chroma.Document{
				{Id: docId.String(), Content: "First law.", Metadata: map[string]interface{}{
					"file_name": "notes.pdf",
					"mime":      "application/pdf",
					"size":      float64(2048),
				}},
			}},
		}}
		collections := &fakeCollectionRepo{}
		embeddings := &fakeEmbeddingRepo{byCollection: map[uuid.UUID][]*entity.Embedding{}}
		svc, _ := newSyncFixture(gateway, collections, embeddings)

		report, err := svc.Sync(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, report.CollectionsCreated)
		assert.Equal(t, 1, report.EmbeddingsCreated)

		assert.Len(t, collections.created, 1)
		assert.Equal(t, "physics", collections.created[0].Name)
		assert.False(t, collections.created[0].Active)

		assert.Len(t, embeddings.created, 1)
		created := embeddings.created[0]
		assert.Equal(t, docId, created.Id)
		assert.Equal(t, "First law.", created.Content)
		assert.Equal(t, "notes.pdf", created.Name)
		assert.Equal(t, "application/pdf", created.Mime)
		assert.Equal(t, int64(2048), created.Size)
	})

	t.Run("vector store content wins on mismatch", func(t *testing.T) {
		collectionId := uuid.New()
		drifted := embeddingRow(collectionId, "Old text.")
		orphan := embeddingRow(collectionId, "Gone from the store.")

		gateway := &fakeGateway{collections: map[string]*fakeCollection{
			"physics": {id: "col-1", name: "physics", docs: []chroma.Document{
				{Id: drifted.Id.String(), Content: "New text."},
			}},
		}}
		collections := &fakeCollectionRepo{rows: []*entity.Collection{{Id: collectionId, Name: "physics"}}}
		embeddings := &fakeEmbeddingRepo{byCollection: map[uuid.UUID][]*entity.Embedding{
			collectionId: {drifted, orphan},
		}}
		svc, _ := newSyncFixture(gateway, collections, embeddings)

		report, err := svc.Sync(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, report.EmbeddingsUpdated)
		assert.Equal(t, 1, report.EmbeddingsDeleted)
		assert.Equal(t, "New text.", embeddings.updated[0].Content)
		assert.Equal(t, []uuid.UUID{orphan.Id}, embeddings.deleted)
	})

	t.Run("skips vector documents with non uuid ids", func(t *testing.T) {
		gateway := &fakeGateway{collections: map[string]*fakeCollection{
			"physics": {id: "col-1", name: "physics", docs: []chroma.Document{
				{Id: "not-a-uuid", Content: "Untracked."},
			}},
		}}
		collections := &fakeCollectionRepo{rows: []*entity.Collection{{Id: uuid.New(), Name: "physics"}}}
		embeddings := &fakeEmbeddingRepo{byCollection: map[uuid.UUID][]*entity.Embedding{}}
		svc, _ := newSyncFixture(gateway, collections, embeddings)

		report, err := svc.Sync(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0, report.EmbeddingsCreated)
		assert.Empty(t, embeddings.created)
	})
}
