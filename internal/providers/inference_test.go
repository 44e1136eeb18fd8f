package providers

import (
	"context"
	"fmt"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/folio-dev/folio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClientConfig(baseURL string) ProviderConfig {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestGenerateRequestShape(t *testing.T) {
	var (
		gotPath   string
		gotAuth   string
		gotCT     string
		gotMethod string
		gotBody   map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`[{"generated_text":"hello there friend"}]`))
	}))
	defer srv.Close()

	client := NewInferenceClient(testClientConfig(srv.URL))
	result := client.Generate(context.Background(), "microsoft/DialoGPT-small", "the prompt", NewCredential("secret"))

	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
	assert.Equal(t, "hello there friend", result.Text)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/models/microsoft/DialoGPT-small", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotCT)

	assert.Equal(t, "the prompt", gotBody["inputs"])
	params, ok := gotBody["parameters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(100), params["max_new_tokens"])
	assert.Equal(t, 0.7, params["temperature"])
	assert.Equal(t, true, params["do_sample"])
	assert.Equal(t, false, params["return_full_text"])
}

func TestGenerateWithoutCredential(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`"some generated text"`))
	}))
	defer srv.Close()

	client := NewInferenceClient(testClientConfig(srv.URL))
	result := client.Generate(context.Background(), "gpt2", "p", Credential{})

	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
	assert.False(t, hasAuth, "no Authorization header without a credential")
}

func TestGenerateStatusClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		outcome models.Outcome
	}{
		{"loading", http.StatusServiceUnavailable, `{"error":"loading"}`, models.OutcomeRetryable},
		{"server error", http.StatusInternalServerError, `{}`, models.OutcomeFailure},
		{"unauthorized", http.StatusUnauthorized, `{}`, models.OutcomeFailure},
		{"rate limited", http.StatusTooManyRequests, `{}`, models.OutcomeFailure},
		{"ok without text", http.StatusOK, `[{"score":1}]`, models.OutcomeFailure},
		{"ok invalid json", http.StatusOK, `not json`, models.OutcomeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewInferenceClient(testClientConfig(srv.URL))
			result := client.Generate(context.Background(), "gpt2", "p", Credential{})

			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.status, result.StatusCode)
			assert.NotEmpty(t, result.Reason)
			if tt.status != http.StatusOK {
				assert.Contains(t, result.Reason, fmt.Sprintf("model gpt2: status %d", tt.status))
			}
		})
	}
}

func TestStatusError(t *testing.T) {
	loading := statusError("gpt2", http.StatusServiceUnavailable)
	assert.True(t, loading.Retryable)
	assert.Equal(t, http.StatusServiceUnavailable, loading.StatusCode)
	assert.ErrorIs(t, loading, errModelLoading)
	assert.Equal(t, "model gpt2: status 503: model is loading", loading.Error())

	denied := statusError("distilgpt2", http.StatusUnauthorized)
	assert.False(t, denied.Retryable)
	assert.Equal(t, http.StatusUnauthorized, denied.StatusCode)
	assert.Equal(t, "distilgpt2", denied.Model)
}

func TestGenerateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewInferenceClient(testClientConfig(url))
	result := client.Generate(context.Background(), "gpt2", "p", Credential{})

	assert.Equal(t, models.OutcomeFailure, result.Outcome)
	assert.Contains(t, result.Reason, "model gpt2")
}

func TestGenerateRequiresModel(t *testing.T) {
	client := NewInferenceClient(testClientConfig("http://127.0.0.1:1"))
	result := client.Generate(context.Background(), "", "p", Credential{})

	assert.Equal(t, models.OutcomeFailure, result.Outcome)
}

func TestCredentialSources(t *testing.T) {
	cred, err := StaticCredential("")()
	require.NoError(t, err)
	assert.False(t, cred.Present())

	t.Setenv("FOLIO_TEST_TOKEN", "tok")
	cred, err = EnvCredential("FOLIO_TEST_TOKEN")()
	require.NoError(t, err)
	assert.True(t, cred.Present())
	assert.Equal(t, "tok", cred.Token())
}
