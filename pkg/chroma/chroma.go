package chroma

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a collection or document does not exist
// in the vector store.
var ErrNotFound = errors.New("chroma: not found")

// Document is a single entry in a collection. Id doubles as the
// relational embedding row id so the two stores can be reconciled.
type Document struct {
	Id       string
	Content  string
	Metadata map[string]interface{}
}

// QueryResult is a document plus its distance to the query embedding.
type QueryResult struct {
	Document
	Distance float64
}

// CollectionInfo describes a collection without binding a handle to it.
type CollectionInfo struct {
	Id       string
	Name     string
	Metadata map[string]interface{}
	Count    int
}

// Collection is a handle to one vector-store collection. The embedding
// function is bound when the handle is acquired, so every Add and Query
// on the handle embeds with the same provider.
type Collection interface {
	Id() string
	Name() string

	Add(ctx context.Context, docs []Document) error
	Get(ctx context.Context, ids []string) ([]Document, error)
	GetAll(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, ids []string) error
	Query(ctx context.Context, text string, nResults int) ([]QueryResult, error)
	Count(ctx context.Context) (int, error)
}

// Gateway is the vector-store client surface. All operations are scoped
// to the tenant and database configured at construction.
type Gateway interface {
	Heartbeat(ctx context.Context) error
	GetOrCreateCollection(ctx context.Context, name string, metadata map[string]interface{}) (Collection, error)
	GetCollection(ctx context.Context, name string) (Collection, error)
	DeleteCollection(ctx context.Context, name string) error
	ListCollections(ctx context.Context) ([]CollectionInfo, error)
}
