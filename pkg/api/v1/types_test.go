package v1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIRequestProviderName(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"message":"hi","provider":"openai"}`, "openai"},
		{`{"message":"hi","provider":5}`, ""},
		{`{"message":"hi","provider":{"name":"openai"}}`, ""},
		{`{"message":"hi","provider":null}`, ""},
		{`{"message":"hi"}`, ""},
	}

	for _, tt := range tests {
		var req AIRequest
		require.NoError(t, json.Unmarshal([]byte(tt.body), &req), tt.body)
		assert.Equal(t, tt.want, req.ProviderName(), tt.body)
	}
}

func TestAIResponseEchoesRawProvider(t *testing.T) {
	out, err := json.Marshal(AIResponse{Response: "r", Provider: json.RawMessage(`5`), Timestamp: "t", Success: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"response":"r","provider":5,"timestamp":"t","success":true}`, string(out))

	out, err = json.Marshal(AIResponse{Response: "r", Timestamp: "t", Success: true})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "provider")
}
