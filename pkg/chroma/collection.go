package chroma

import (
	"context"
	"fmt"

	"edu-chat-be/pkg/embedding"
)

type collectionHandle struct {
	client   *Client
	id       string
	name     string
	embedder embedding.Provider
}

var _ Collection = &collectionHandle{}

func (h *collectionHandle) Id() string   { return h.id }
func (h *collectionHandle) Name() string { return h.name }

func (h *collectionHandle) url(op string) string {
	return fmt.Sprintf("%s/%s/%s", h.client.collectionsURL(), h.id, op)
}

type addRequest struct {
	Ids        []string                 `json:"ids"`
	Embeddings [][]float32              `json:"embeddings"`
	Documents  []string                 `json:"documents"`
	Metadatas  []map[string]interface{} `json:"metadatas"`
}

func (h *collectionHandle) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, len(docs))
	contents := make([]string, len(docs))
	metadatas := make([]map[string]interface{}, len(docs))
	for i, doc := range docs {
		ids[i] = doc.Id
		contents[i] = doc.Content
		metadatas[i] = doc.Metadata
	}

	vectors, err := h.embedder.EmbedBatch(ctx, contents)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}

	return h.client.doJSON(ctx, "POST", h.url("add"), addRequest{
		Ids:        ids,
		Embeddings: vectors,
		Documents:  contents,
		Metadatas:  metadatas,
	}, nil)
}

type getRequest struct {
	Ids     []string `json:"ids,omitempty"`
	Include []string `json:"include"`
}

type getResponse struct {
	Ids       []string                 `json:"ids"`
	Documents []string                 `json:"documents"`
	Metadatas []map[string]interface{} `json:"metadatas"`
}

func (h *collectionHandle) Get(ctx context.Context, ids []string) ([]Document, error) {
	return h.get(ctx, ids)
}

func (h *collectionHandle) GetAll(ctx context.Context) ([]Document, error) {
	return h.get(ctx, nil)
}

func (h *collectionHandle) get(ctx context.Context, ids []string) ([]Document, error) {
	var resp getResponse
	err := h.client.doJSON(ctx, "POST", h.url("get"), getRequest{
		Ids:     ids,
		Include: []string{"documents", "metadatas"},
	}, &resp)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, len(resp.Ids))
	for i, id := range resp.Ids {
		doc := Document{Id: id}
		if i < len(resp.Documents) {
			doc.Content = resp.Documents[i]
		}
		if i < len(resp.Metadatas) {
			doc.Metadata = resp.Metadatas[i]
		}
		docs[i] = doc
	}
	return docs, nil
}

type deleteRequest struct {
	Ids []string `json:"ids"`
}

func (h *collectionHandle) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return h.client.doJSON(ctx, "POST", h.url("delete"), deleteRequest{Ids: ids}, nil)
}

type queryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

type queryResponse struct {
	Ids       [][]string                 `json:"ids"`
	Documents [][]string                 `json:"documents"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Distances [][]float64                `json:"distances"`
}

func (h *collectionHandle) Query(ctx context.Context, text string, nResults int) ([]QueryResult, error) {
	vector, err := h.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var resp queryResponse
	err = h.client.doJSON(ctx, "POST", h.url("query"), queryRequest{
		QueryEmbeddings: [][]float32{vector},
		NResults:        nResults,
		Include:         []string{"documents", "metadatas", "distances"},
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Ids) == 0 {
		return nil, nil
	}

	// Single query embedding, so only the first result group matters.
	results := make([]QueryResult, len(resp.Ids[0]))
	for i, id := range resp.Ids[0] {
		result := QueryResult{Document: Document{Id: id}}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
			result.Content = resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			result.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			result.Distance = resp.Distances[0][i]
		}
		results[i] = result
	}
	return results, nil
}

func (h *collectionHandle) Count(ctx context.Context) (int, error) {
	var count int
	if err := h.client.doJSON(ctx, "GET", h.url("count"), nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}
