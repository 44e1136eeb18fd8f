package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/folio-dev/folio/internal/models"
)

// maxResponseBytes bounds how much of a completion body is read.
const maxResponseBytes = 1 << 20

var errModelLoading = errors.New("model is loading")

// InferenceClient issues single text-generation calls against the hosted
// inference API. It never retries; callers decide what to try next.
type InferenceClient struct {
	config ProviderConfig
	client *http.Client
}

// NewInferenceClient creates a client for the configured inference host.
func NewInferenceClient(config ProviderConfig) *InferenceClient {
	return &InferenceClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type generationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
}

type generationParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	DoSample       bool    `json:"do_sample"`
	ReturnFullText bool    `json:"return_full_text"`
}

// Generate asks one model for a completion of prompt. The result is
// Retryable for 503 (model loading) and Failure for every other problem.
func (c *InferenceClient) Generate(ctx context.Context, model, prompt string, cred Credential) models.AttemptResult {
	req, err := c.newRequest(ctx, model, prompt, cred)
	if err != nil {
		return models.Failure(0, err.Error())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Failure(0, (&models.ProviderError{Model: model, Err: err}).Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		perr := statusError(model, resp.StatusCode)
		if perr.Retryable {
			return models.Retryable(perr.StatusCode, perr.Error())
		}
		return models.Failure(perr.StatusCode, perr.Error())
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.Failure(resp.StatusCode, fmt.Sprintf("failed to read response: %v", err))
	}
	if !json.Valid(body) {
		return models.Failure(resp.StatusCode, "response is not valid JSON")
	}

	text, _, ok := ExtractText(body)
	if !ok {
		return models.Failure(resp.StatusCode, "no generated text in response")
	}
	return models.Success(text)
}

// statusError classifies a non-2xx response. Only 503 is retryable.
func statusError(model string, statusCode int) *models.ProviderError {
	perr := &models.ProviderError{
		StatusCode: statusCode,
		Model:      model,
		Err:        errors.New("unexpected status"),
	}
	if statusCode == http.StatusServiceUnavailable {
		perr.Err = errModelLoading
		perr.Retryable = true
	}
	return perr
}

// newRequest builds the POST for a model. The Authorization header is only
// set when cred is present.
func (c *InferenceClient) newRequest(ctx context.Context, model, prompt string, cred Credential) (*http.Request, error) {
	if model == "" {
		return nil, errors.New("model name is required")
	}

	payload, err := json.Marshal(generationRequest{
		Inputs: prompt,
		Parameters: generationParameters{
			MaxNewTokens:   c.config.MaxNewTokens,
			Temperature:    c.config.Temperature,
			DoSample:       c.config.DoSample,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cred.Present() {
		req.Header.Set("Authorization", "Bearer "+cred.Token())
	}
	return req, nil
}

// Close releases idle connections.
func (c *InferenceClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
