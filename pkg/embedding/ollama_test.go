package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbedBatch(t *testing.T) {
	t.Run("sends model and inputs and parses vectors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/embed", r.URL.Path)

			var req map[string]interface{}
			json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, "nomic-embed-text", req["model"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"embeddings": [][]float32{{0.1, 0.2}, {0.3, 0.4}},
			})
		}))
		defer server.Close()

		provider := NewOllamaProvider(server.URL, "nomic-embed-text")
		vectors, err := provider.EmbedBatch(context.Background(), []string{"first", "second"})

		assert.NoError(t, err)
		assert.Len(t, vectors, 2)
		assert.Equal(t, []float32{0.3, 0.4}, vectors[1])
	})

	t.Run("vector count mismatch is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"embeddings": [][]float32{{0.1}},
			})
		}))
		defer server.Close()

		provider := NewOllamaProvider(server.URL, "nomic-embed-text")
		_, err := provider.EmbedBatch(context.Background(), []string{"first", "second"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "count mismatch")
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		provider := NewOllamaProvider(server.URL, "nomic-embed-text")
		_, err := provider.EmbedBatch(context.Background(), []string{"first"})

		assert.Error(t, err)
	})
}

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float32{{0.5, 0.6}},
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "nomic-embed-text")
	vector, err := provider.Embed(context.Background(), "hello")

	assert.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.6}, vector)
}
