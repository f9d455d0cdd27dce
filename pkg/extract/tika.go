package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TikaClient extracts plain text from uploaded files through an Apache
// Tika server.
type TikaClient struct {
	BaseURL string
	Client  *http.Client
}

func NewTikaClient(baseURL string) *TikaClient {
	return &TikaClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// ExtractText sends the raw file bytes to Tika and returns the trimmed
// plain-text body. An empty result is an error because an embedding
// without text is useless.
func (t *TikaClient) ExtractText(ctx context.Context, content []byte, mimeType string) (string, error) {
	url := t.BaseURL + "/tika"
	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	if mimeType != "" {
		req.Header.Set("Content-Type", mimeType)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tika request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tika error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	text := strings.TrimSpace(string(bodyBytes))
	if text == "" {
		return "", fmt.Errorf("tika returned no extractable text")
	}
	return text, nil
}
