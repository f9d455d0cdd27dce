package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// Config carries the OAuth2 client-credentials settings for the
// external conversation-management API.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string
}

// Client mirrors agent and conversation operations to the upstream
// conversation-management API. Tokens are fetched and refreshed by the
// oauth2 transport.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(ctx context.Context, cfg Config) *Client {
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{cfg.Scope},
	}

	httpClient := creds.Client(ctx)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
	}
}

type Agent struct {
	Id                 string  `json:"id,omitempty"`
	Name               string  `json:"name"`
	SystemInstructions string  `json:"system_instructions"`
	Temperature        float64 `json:"temperature"`
	MaxResponseTokens  int     `json:"max_response_tokens"`
}

type ConversationRef struct {
	Id string `json:"id"`
}

type ChatReply struct {
	Content string `json:"content"`
}

type RemoteMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewBuffer(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upstream error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// CreateAgent registers an agent upstream and returns its remote id.
func (c *Client) CreateAgent(ctx context.Context, agent Agent) (string, error) {
	var created Agent
	if err := c.doJSON(ctx, "POST", "/agents/create-agent", agent, &created); err != nil {
		return "", err
	}
	return created.Id, nil
}

// CreateConversation opens a remote conversation bound to an agent.
func (c *Client) CreateConversation(ctx context.Context, agentId string) (string, error) {
	var ref ConversationRef
	payload := map[string]string{"agent_id": agentId}
	if err := c.doJSON(ctx, "POST", "/agents/create-conversation", payload, &ref); err != nil {
		return "", err
	}
	return ref.Id, nil
}

// ChatAgent relays a user message to a remote conversation.
func (c *Client) ChatAgent(ctx context.Context, conversationId, message string) (string, error) {
	var reply ChatReply
	payload := map[string]string{
		"conversation_id": conversationId,
		"message":         message,
	}
	if err := c.doJSON(ctx, "POST", "/agents/chat-agent", payload, &reply); err != nil {
		return "", err
	}
	return reply.Content, nil
}

// GetMessages fetches the remote transcript of a conversation.
func (c *Client) GetMessages(ctx context.Context, conversationId string) ([]RemoteMessage, error) {
	var messages []RemoteMessage
	path := "/agents/get-messages?conversation_id=" + conversationId
	if err := c.doJSON(ctx, "GET", path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
