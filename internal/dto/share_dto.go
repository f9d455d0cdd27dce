package dto

type ShareConversationResponse struct {
	SharedUrlId string `json:"shared_url_id"`
}

// SharedConversationView is the public snapshot of a shared
// conversation. Only messages created strictly before the share
// existed are visible.
type SharedConversationView struct {
	Title    string            `json:"title"`
	SharedAt string            `json:"shared_at"`
	Messages []MessageResponse `json:"messages"`
}
