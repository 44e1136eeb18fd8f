package models

import (
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 layout used on every response.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Provider identifies the inference strategy requested by a caller.
type Provider string

const (
	ProviderHuggingFace Provider = "huggingface"
	ProviderOpenAI      Provider = "openai"
	ProviderAnthropic   Provider = "anthropic"
	ProviderDefault     Provider = "default"
)

// ParseProvider maps a caller-supplied provider name to a Provider. Names
// match exactly; unknown and empty values map to ProviderDefault rather than
// failing.
func ParseProvider(name string) Provider {
	switch p := Provider(name); p {
	case ProviderHuggingFace, ProviderOpenAI, ProviderAnthropic:
		return p
	default:
		return ProviderDefault
	}
}

// IsSimulated reports whether the provider answers from static text only.
func (p Provider) IsSimulated() bool {
	return p == ProviderOpenAI || p == ProviderAnthropic
}

// ChatRequest is a single chat widget request. Provider is kept as sent so
// it can be echoed back.
type ChatRequest struct {
	Message  string `json:"message"`
	Provider string `json:"provider,omitempty"`
}

// ChatResponse is the outcome of resolving a ChatRequest.
type ChatResponse struct {
	Response  string    `json:"response,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"-"`
}

// Outcome classifies a single candidate attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetryable
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	default:
		return "failure"
	}
}

// AttemptResult is produced once per candidate and never outlives the
// resolution loop.
type AttemptResult struct {
	Outcome    Outcome
	Text       string
	Reason     string
	StatusCode int
}

// Success builds a successful attempt carrying raw generated text.
func Success(text string) AttemptResult {
	return AttemptResult{Outcome: OutcomeSuccess, Text: text}
}

// Retryable builds an attempt that failed because the model is not ready yet.
func Retryable(statusCode int, reason string) AttemptResult {
	return AttemptResult{Outcome: OutcomeRetryable, Reason: reason, StatusCode: statusCode}
}

// Failure builds an attempt that failed for any other reason.
func Failure(statusCode int, reason string) AttemptResult {
	return AttemptResult{Outcome: OutcomeFailure, Reason: reason, StatusCode: statusCode}
}

// ProviderError represents a failed call against an inference candidate.
type ProviderError struct {
	StatusCode int    `json:"status_code"`
	Err        error  `json:"error"`
	Model      string `json:"model"`
	Retryable  bool   `json:"retryable"`
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("model %s: status %d: %v", e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Article is a blog post surfaced from the RSS feed.
type Article struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	PublishedAt string   `json:"publishedAt"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}
