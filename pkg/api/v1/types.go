package v1

import (
	"encoding/json"
	"time"
)

// AIRequest is the body of POST /api/ai. Provider is kept raw so that any
// JSON value is accepted and can be echoed back unchanged.
type AIRequest struct {
	Message  string          `json:"message"`
	Provider json.RawMessage `json:"provider,omitempty"`
}

// ProviderName returns the provider when it is a JSON string and "" otherwise,
// which routes to the default provider.
func (r AIRequest) ProviderName() string {
	var name string
	if len(r.Provider) == 0 || json.Unmarshal(r.Provider, &name) != nil {
		return ""
	}
	return name
}

// AIResponse is a successful chat reply. Provider echoes the request value
// and is omitted when the request had none.
type AIResponse struct {
	Response  string          `json:"response"`
	Provider  json.RawMessage `json:"provider,omitempty"`
	Timestamp string          `json:"timestamp"`
	Success   bool            `json:"success"`
}

// AIErrorResponse is returned by /api/ai when the request cannot be read.
type AIErrorResponse struct {
	Error     string `json:"error"`
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the plain error body used by the other endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Article represents a blog post.
type Article struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	PublishedAt string   `json:"publishedAt"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// ArticlesResponse is the body of GET /api/medium.
type ArticlesResponse struct {
	Articles []Article `json:"articles"`
}

// ProviderInfo describes one chat provider.
type ProviderInfo struct {
	Name      string   `json:"name"`
	Simulated bool     `json:"simulated"`
	Models    []string `json:"models"`
}

// ProvidersResponse is the body of GET /api/ai/providers.
type ProvidersResponse struct {
	Providers []ProviderInfo `json:"providers"`
	Total     int            `json:"total"`
}

// HealthResponse represents the health status of the service.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Version   string    `json:"version"`
	Feed      string    `json:"feed"`
	Cache     string    `json:"cache"`
}
