package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edu-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func newTestProvider(url string) *OpenAIProvider {
	return NewOpenAIProvider(url, "test-key", "test-model", 5*time.Second)
}

func TestChat(t *testing.T) {
	t.Run("parses content and usage", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req map[string]interface{}
			json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, "test-model", req["model"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": "Hello there"}},
				},
				"usage": map[string]int{"prompt_tokens": 42, "completion_tokens": 7},
			})
		}))
		defer server.Close()

		provider := newTestProvider(server.URL)
		completion, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "Hi"}})

		assert.NoError(t, err)
		assert.Equal(t, "Hello there", completion.Content)
		assert.Equal(t, int64(42), completion.PromptTokens)
		assert.Equal(t, int64(7), completion.CompletionTokens)
	})

	t.Run("maps model role to assistant", func(t *testing.T) {
		var gotRoles []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Messages []struct {
					Role string `json:"role"`
				} `json:"messages"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			for _, m := range req.Messages {
				gotRoles = append(gotRoles, m.Role)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"content": "ok"}},
				},
			})
		}))
		defer server.Close()

		provider := newTestProvider(server.URL)
		_, err := provider.Chat(context.Background(), []llm.Message{
			{Role: "user", Content: "a"},
			{Role: "model", Content: "b"},
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{"user", "assistant"}, gotRoles)
	})

	t.Run("surfaces api error message and status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": "Rate limit reached"},
			})
		}))
		defer server.Close()

		provider := newTestProvider(server.URL)
		_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "Hi"}})

		var modelErr *llm.ModelError
		assert.True(t, errors.As(err, &modelErr))
		assert.Equal(t, http.StatusTooManyRequests, modelErr.StatusCode)
		assert.Equal(t, "Rate limit reached", modelErr.Message)
	})

	t.Run("empty choices is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		}))
		defer server.Close()

		provider := newTestProvider(server.URL)
		_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "Hi"}})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})
}
