package chroma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEmbedder struct {
	vector []float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = f.vector
	}
	return vectors, nil
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	parsed, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	host, port, err := net.SplitHostPort(parsed.Host)
	if err != nil {
		t.Fatal(err)
	}

	client := NewClient(ClientConfig{
		Host:     host,
		Port:     port,
		Tenant:   "test_tenant",
		Database: "test_db",
		Token:    "secret",
	}, &fakeEmbedder{vector: []float32{0.1, 0.2}})
	return client, server
}

const collectionsPath = "/api/v2/tenants/test_tenant/databases/test_db/collections"

func TestGetOrCreateCollection(t *testing.T) {
	var gotReq map[string]interface{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, collectionsPath, r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "col-1", "name": "physics"})
	}))

	col, err := client.GetOrCreateCollection(context.Background(), "physics", map[string]interface{}{"max_results": 4})

	assert.NoError(t, err)
	assert.Equal(t, "col-1", col.Id())
	assert.Equal(t, "physics", col.Name())
	assert.Equal(t, true, gotReq["get_or_create"])
	assert.Equal(t, "physics", gotReq["name"])
}

func TestGetCollection(t *testing.T) {
	t.Run("caches the handle by name", func(t *testing.T) {
		var hits int
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "col-1", "name": "physics"})
		}))

		_, err := client.GetCollection(context.Background(), "physics")
		assert.NoError(t, err)
		_, err = client.GetCollection(context.Background(), "physics")
		assert.NoError(t, err)

		assert.Equal(t, 1, hits)
	})

	t.Run("missing collection maps to ErrNotFound", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.GetCollection(context.Background(), "missing")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestDeleteCollection(t *testing.T) {
	var deleted bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "DELETE" {
			deleted = true
			w.WriteHeader(http.StatusOK)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "col-1", "name": "physics"})
	}))

	ctx := context.Background()
	_, err := client.GetCollection(ctx, "physics")
	assert.NoError(t, err)

	err = client.DeleteCollection(ctx, "physics")
	assert.NoError(t, err)
	assert.True(t, deleted)

	// Handle cache was invalidated, so the next lookup goes to the server.
	_, err = client.GetCollection(ctx, "physics")
	assert.NoError(t, err)
}

func TestListCollections(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case collectionsPath:
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": "col-1", "name": "physics", "metadata": map[string]interface{}{"max_results": 4.0}},
				{"id": "col-2", "name": "chemistry"},
			})
		case collectionsPath + "/col-1/count":
			fmt.Fprint(w, "3")
		case collectionsPath + "/col-2/count":
			fmt.Fprint(w, "0")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	infos, err := client.ListCollections(context.Background())

	assert.NoError(t, err)
	assert.Len(t, infos, 2)
	assert.Equal(t, "physics", infos[0].Name)
	assert.Equal(t, 3, infos[0].Count)
	assert.Equal(t, 0, infos[1].Count)
}

func TestCollectionAdd(t *testing.T) {
	var gotAdd addRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case collectionsPath:
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "col-1", "name": "physics"})
		case collectionsPath + "/col-1/add":
			json.NewDecoder(r.Body).Decode(&gotAdd)
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()
	col, err := client.GetOrCreateCollection(ctx, "physics", nil)
	assert.NoError(t, err)

	err = col.Add(ctx, []Document{
		{Id: "doc-1", Content: "First law.", Metadata: map[string]interface{}{"file_name": "notes.pdf"}},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, gotAdd.Ids)
	assert.Equal(t, []string{"First law."}, gotAdd.Documents)
	assert.Len(t, gotAdd.Embeddings, 1)
	assert.Equal(t, "notes.pdf", gotAdd.Metadatas[0]["file_name"])
}

func TestCollectionQuery(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case collectionsPath:
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "col-1", "name": "physics"})
		case collectionsPath + "/col-1/query":
			var req queryRequest
			json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, 2, req.NResults)
			assert.Len(t, req.QueryEmbeddings, 1)
			json.NewEncoder(w).Encode(queryResponse{
				Ids:       [][]string{{"doc-1", "doc-2"}},
				Documents: [][]string{{"First law.", "Second law."}},
				Metadatas: [][]map[string]interface{}{{{"file_name": "a.pdf"}, {"file_name": "b.pdf"}}},
				Distances: [][]float64{{0.1, 0.4}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()
	col, err := client.GetOrCreateCollection(ctx, "physics", nil)
	assert.NoError(t, err)

	results, err := col.Query(ctx, "what is entropy?", 2)

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "doc-1", results[0].Id)
	assert.Equal(t, "First law.", results[0].Content)
	assert.Equal(t, 0.1, results[0].Distance)
	assert.Equal(t, "b.pdf", results[1].Metadata["file_name"])
}

func TestCollectionCount(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case collectionsPath:
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "col-1", "name": "physics"})
		case collectionsPath + "/col-1/count":
			fmt.Fprint(w, "7")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()
	col, err := client.GetOrCreateCollection(ctx, "physics", nil)
	assert.NoError(t, err)

	count, err := col.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 7, count)
}
