package providers

import (
	"context"
	"os"
	"time"

	"github.com/folio-dev/folio/internal/models"
)

// Provider is implemented by every reply strategy the chat endpoint can use.
type Provider interface {
	// GetName returns the provider identifier.
	GetName() models.Provider

	// GetModels returns the models the provider tries, in order.
	GetModels() []string

	// Respond produces reply text for a message. Simulated providers never
	// fail; the live provider reports orchestration failures as errors.
	Respond(ctx context.Context, message string) (string, error)
}

// ProviderConfig configures the hosted inference API.
type ProviderConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Models       []string      `mapstructure:"models"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxNewTokens int           `mapstructure:"max_new_tokens"`
	Temperature  float64       `mapstructure:"temperature"`
	DoSample     bool          `mapstructure:"do_sample"`
}

// DefaultModels is the candidate order used when none is configured.
var DefaultModels = []string{
	"gpt2",
	"distilgpt2",
	"microsoft/DialoGPT-small",
}

// DefaultConfig returns the inference settings the chat widget was tuned for.
func DefaultConfig() ProviderConfig {
	return ProviderConfig{
		BaseURL:      "https://api-inference.huggingface.co",
		Models:       append([]string(nil), DefaultModels...),
		Timeout:      30 * time.Second,
		MaxNewTokens: 100,
		Temperature:  0.7,
		DoSample:     true,
	}
}

// Credential is an optional bearer token. The zero value means no
// credential, which is a valid state: requests go out unauthenticated.
type Credential struct {
	token string
}

// NewCredential wraps a token. An empty token yields an absent credential.
func NewCredential(token string) Credential {
	return Credential{token: token}
}

// Present reports whether a token is set.
func (c Credential) Present() bool {
	return c.token != ""
}

// Token returns the raw token.
func (c Credential) Token() string {
	return c.token
}

// CredentialSource resolves the credential at request time.
type CredentialSource func() (Credential, error)

// StaticCredential always returns the same token.
func StaticCredential(token string) CredentialSource {
	return func() (Credential, error) {
		return NewCredential(token), nil
	}
}

// EnvCredential reads the token from an environment variable on every call.
func EnvCredential(name string) CredentialSource {
	return func() (Credential, error) {
		return NewCredential(os.Getenv(name)), nil
	}
}

// HasAPIKey reports whether a bearer token is configured.
func (c ProviderConfig) HasAPIKey() bool {
	return c.APIKey != ""
}
