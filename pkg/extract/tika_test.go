package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText(t *testing.T) {
	t.Run("returns trimmed text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "PUT", r.Method)
			assert.Equal(t, "/tika", r.URL.Path)
			assert.Equal(t, "text/plain", r.Header.Get("Accept"))
			assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
			w.Write([]byte("\n\n  Extracted lecture notes.  \n"))
		}))
		defer server.Close()

		client := NewTikaClient(server.URL)
		text, err := client.ExtractText(context.Background(), []byte("%PDF-1.4"), "application/pdf")

		assert.NoError(t, err)
		assert.Equal(t, "Extracted lecture notes.", text)
	})

	t.Run("empty body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("   \n"))
		}))
		defer server.Close()

		client := NewTikaClient(server.URL)
		_, err := client.ExtractText(context.Background(), []byte("data"), "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no extractable text")
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte("cannot parse"))
		}))
		defer server.Close()

		client := NewTikaClient(server.URL)
		_, err := client.ExtractText(context.Background(), []byte("data"), "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "status 422")
	})
}
