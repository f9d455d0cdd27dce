package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"edu-chat-be/pkg/embedding"

	gocache "github.com/patrickmn/go-cache"
)

// ClientConfig carries the connection settings for a Chroma server.
type ClientConfig struct {
	Host     string
	Port     string
	Tenant   string
	Database string
	Token    string
}

// Client is the HTTP implementation of Gateway, speaking the Chroma v2
// REST API. Collection handles are resolved by name and the name→id
// mapping is cached so repeated lookups skip a round trip.
type Client struct {
	baseURL  string
	tenant   string
	database string
	token    string
	embedder embedding.Provider
	http     *http.Client
	handles  *gocache.Cache
}

var _ Gateway = &Client{}

func NewClient(cfg ClientConfig, embedder embedding.Provider) *Client {
	return &Client{
		baseURL:  fmt.Sprintf("http://%s:%s/api/v2", cfg.Host, cfg.Port),
		tenant:   cfg.Tenant,
		database: cfg.Database,
		token:    cfg.Token,
		embedder: embedder,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		handles: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// collectionsURL is the tenant/database scoped collections root.
func (c *Client) collectionsURL() string {
	return fmt.Sprintf("%s/tenants/%s/databases/%s/collections", c.baseURL, c.tenant, c.database)
}

// doJSON performs a request with the bearer token and decodes the JSON
// response into out when out is non-nil. A 404 maps to ErrNotFound.
func (c *Client) doJSON(ctx context.Context, method, url string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewBuffer(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chroma request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chroma error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *Client) Heartbeat(ctx context.Context) error {
	return c.doJSON(ctx, "GET", c.baseURL+"/heartbeat", nil, nil)
}

type collectionPayload struct {
	Id       string                 `json:"id"`
	Name     string                 `json:"name"`
	Metadata map[string]interface{} `json:"metadata"`
}

type createCollectionRequest struct {
	Name        string                 `json:"name"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	GetOrCreate bool                   `json:"get_or_create"`
}

func (c *Client) GetOrCreateCollection(ctx context.Context, name string, metadata map[string]interface{}) (Collection, error) {
	var created collectionPayload
	err := c.doJSON(ctx, "POST", c.collectionsURL(), createCollectionRequest{
		Name:        name,
		Metadata:    metadata,
		GetOrCreate: true,
	}, &created)
	if err != nil {
		return nil, err
	}

	c.handles.Set(name, created.Id, gocache.DefaultExpiration)
	return c.newHandle(created.Id, name), nil
}

func (c *Client) GetCollection(ctx context.Context, name string) (Collection, error) {
	if cached, found := c.handles.Get(name); found {
		return c.newHandle(cached.(string), name), nil
	}

	var col collectionPayload
	err := c.doJSON(ctx, "GET", c.collectionsURL()+"/"+name, nil, &col)
	if err != nil {
		return nil, err
	}

	c.handles.Set(name, col.Id, gocache.DefaultExpiration)
	return c.newHandle(col.Id, name), nil
}

func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	if err := c.doJSON(ctx, "DELETE", c.collectionsURL()+"/"+name, nil, nil); err != nil {
		return err
	}
	c.handles.Delete(name)
	return nil
}

func (c *Client) ListCollections(ctx context.Context) ([]CollectionInfo, error) {
	var cols []collectionPayload
	if err := c.doJSON(ctx, "GET", c.collectionsURL(), nil, &cols); err != nil {
		return nil, err
	}

	infos := make([]CollectionInfo, len(cols))
	for i, col := range cols {
		count := 0
		countURL := fmt.Sprintf("%s/%s/count", c.collectionsURL(), col.Id)
		if err := c.doJSON(ctx, "GET", countURL, nil, &count); err != nil {
			return nil, err
		}
		infos[i] = CollectionInfo{
			Id:       col.Id,
			Name:     col.Name,
			Metadata: col.Metadata,
			Count:    count,
		}
	}
	return infos, nil
}

func (c *Client) newHandle(id, name string) *collectionHandle {
	return &collectionHandle{
		client:   c,
		id:       id,
		name:     name,
		embedder: c.embedder,
	}
}
