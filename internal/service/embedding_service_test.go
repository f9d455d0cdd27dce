package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/repository/contract"
	"edu-chat-be/internal/repository/unitofwork"
	"edu-chat-be/pkg/chroma"
	"edu-chat-be/pkg/extract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeIngestCollectionRepo struct {
	contract.CollectionRepository
	byName map[string]*entity.Collection
}

func (f *fakeIngestCollectionRepo) FindByName(ctx context.Context, name string) (*entity.Collection, error) {
	return f.byName[name], nil
}

type fakeIngestEmbeddingRepo struct {
	contract.EmbeddingRepository
	created []*entity.Embedding
}

func (f *fakeIngestEmbeddingRepo) Create(ctx context.Context, embedding *entity.Embedding) error {
	f.created = append(f.created, embedding)
	return nil
}

type fakeIngestUow struct {
	unitofwork.UnitOfWork
	collections *fakeIngestCollectionRepo
	embeddings  *fakeIngestEmbeddingRepo
	commitErr   error
	committed   bool
}

func (f *fakeIngestUow) Begin(ctx context.Context) error { return nil }
func (f *fakeIngestUow) Commit() error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true
	return nil
}
func (f *fakeIngestUow) Rollback() error { return nil }

func (f *fakeIngestUow) CollectionRepository() contract.CollectionRepository { return f.collections }
func (f *fakeIngestUow) EmbeddingRepository() contract.EmbeddingRepository   { return f.embeddings }

type fakeIngestFactory struct {
	uow *fakeIngestUow
}

func (f *fakeIngestFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type fakeVectorCollection struct {
	chroma.Collection
	added   []chroma.Document
	deleted []string
	addErr  error
}

func (f *fakeVectorCollection) Add(ctx context.Context, docs []chroma.Document) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, docs...)
	return nil
}

func (f *fakeVectorCollection) Delete(ctx context.Context, ids []string) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

type fakeVectorGateway struct {
	chroma.Gateway
	collection *fakeVectorCollection
	err        error
}

func (f *fakeVectorGateway) GetCollection(ctx context.Context, name string) (chroma.Collection, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.collection, nil
}

type ingestFixture struct {
	svc        IEmbeddingService
	uow        *fakeIngestUow
	collection *fakeVectorCollection
	uploadDir  string
}

func newIngestFixture(t *testing.T, tikaStatus int, tikaBody string) *ingestFixture {
	t.Helper()

	tika := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(tikaStatus)
		w.Write([]byte(tikaBody))
	}))
	t.Cleanup(tika.Close)

	uow := &fakeIngestUow{
		collections: &fakeIngestCollectionRepo{byName: map[string]*entity.Collection{
			"course-docs": {Id: uuid.New(), Name: "course-docs", MaxResults: 3},
		}},
		embeddings: &fakeIngestEmbeddingRepo{},
	}
	collection := &fakeVectorCollection{}
	uploadDir := t.TempDir()

	svc := NewEmbeddingService(
		&fakeIngestFactory{uow: uow},
		&fakeVectorGateway{collection: collection},
		extract.NewTikaClient(tika.URL),
		uploadDir,
		nil,
		noopLogger{},
	)
	return &ingestFixture{svc: svc, uow: uow, collection: collection, uploadDir: uploadDir}
}

func uploadCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	return len(entries)
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	content := []byte("plain notes, 120 bytes of them")

	t.Run("success stores both sides and drops the blob", func(t *testing.T) {
		f := newIngestFixture(t, http.StatusOK, "Extracted text.")

		res, err := f.svc.Ingest(ctx, "course-docs", nil, "notes.txt", "text/plain", content)

		assert.NoError(t, err)
		assert.True(t, f.uow.committed)
		assert.Equal(t, "notes.txt", res.Name)
		assert.Equal(t, int64(len(content)), res.Size)

		if assert.Len(t, f.uow.embeddings.created, 1) {
			record := f.uow.embeddings.created[0]
			assert.Equal(t, "Extracted text.", record.Content)
			assert.Empty(t, record.Path)
		}
		if assert.Len(t, f.collection.added, 1) {
			doc := f.collection.added[0]
			assert.Equal(t, res.Id.String(), doc.Id)
			assert.Equal(t, "notes.txt", doc.Metadata["file_name"])
		}
		assert.Zero(t, uploadCount(t, f.uploadDir), "transient blob must not survive a successful ingest")
	})

	t.Run("extraction failure leaves no state behind", func(t *testing.T) {
		f := newIngestFixture(t, http.StatusUnprocessableEntity, "cannot parse")

		_, err := f.svc.Ingest(ctx, "course-docs", nil, "broken.pdf", "application/pdf", content)

		var extraction *dto.ExtractionError
		assert.ErrorAs(t, err, &extraction)
		assert.False(t, f.uow.committed)
		assert.Empty(t, f.collection.added)
		assert.Zero(t, uploadCount(t, f.uploadDir))
	})

	t.Run("vector write failure rolls back and drops the blob", func(t *testing.T) {
		f := newIngestFixture(t, http.StatusOK, "Extracted text.")
		f.collection.addErr = errors.New("chroma down")

		_, err := f.svc.Ingest(ctx, "course-docs", nil, "notes.txt", "text/plain", content)

		var storeErr *dto.EmbeddingStoreError
		assert.ErrorAs(t, err, &storeErr)
		assert.False(t, f.uow.committed)
		assert.Zero(t, uploadCount(t, f.uploadDir))
	})

	t.Run("commit failure undoes the vector write", func(t *testing.T) {
		f := newIngestFixture(t, http.StatusOK, "Extracted text.")
		f.uow.commitErr = errors.New("deadlock")

		_, err := f.svc.Ingest(ctx, "course-docs", nil, "notes.txt", "text/plain", content)

		assert.Error(t, err)
		if assert.Len(t, f.collection.added, 1) {
			assert.Equal(t, []string{f.collection.added[0].Id}, f.collection.deleted)
		}
		assert.Zero(t, uploadCount(t, f.uploadDir))
	})

	t.Run("unknown collection is rejected up front", func(t *testing.T) {
		f := newIngestFixture(t, http.StatusOK, "Extracted text.")

		_, err := f.svc.Ingest(ctx, "missing", nil, "notes.txt", "text/plain", content)

		var notFound *dto.NotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.Zero(t, uploadCount(t, f.uploadDir))
	})
}
