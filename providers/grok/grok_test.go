package grok

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailmind/aigate/pkg/provider"
	"github.com/mailmind/aigate/pkg/types"
	"github.com/mailmind/aigate/providers/openailike"
)

func TestBuildRequest_EndpointAndAuth(t *testing.T) {
	adapter := New(openailike.WithAPIKey("xai-test-key"))

	temp := 0.5
	httpReq, err := adapter.BuildRequest(context.Background(), &types.ChatRequest{
		Model:       "grok-beta",
		Messages:    []types.ChatMessage{{Role: types.RoleUser, Content: "Hello"}},
		Temperature: &temp,
		MaxTokens:   10,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://api.x.ai/v1/chat/completions", httpReq.URL.String())
	assert.Equal(t, "Bearer xai-test-key", httpReq.Header.Get("Authorization"))

	body, err := io.ReadAll(httpReq.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "grok-beta", payload["model"])
	assert.InDelta(t, 0.5, payload["temperature"].(float64), 0.0001)
	assert.EqualValues(t, 10, payload["max_tokens"])
}

func TestParseResponse_PassThrough(t *testing.T) {
	adapter := New()

	raw := `{
		"id": "chatcmpl-xai-1",
		"object": "chat.completion",
		"model": "grok-beta",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hi!"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 2, "completion_tokens": 3, "total_tokens": 5}
	}`
	resp := &http.Response{Body: io.NopCloser(strings.NewReader(raw))}

	chatResp, err := adapter.ParseResponse(resp)
	require.NoError(t, err)

	assert.Equal(t, "Hi!", chatResp.Content())
	assert.Equal(t, types.RoleAssistant, chatResp.Choices[0].Message.Role)
	assert.Equal(t, 5, chatResp.TotalTokens())
}

func TestNewFromConfig(t *testing.T) {
	adapter, err := NewFromConfig(provider.Config{
		APIKey:  "xai-test-key",
		BaseURL: "https://proxy.example.com/v1",
	})
	require.NoError(t, err)
	require.IsType(t, &Adapter{}, adapter)
	assert.Equal(t, ProviderName, adapter.Name())

	httpReq, err := adapter.BuildRequest(context.Background(), &types.ChatRequest{
		Model:    "grok-beta",
		Messages: []types.ChatMessage{{Role: types.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://proxy.example.com/v1/chat/completions", httpReq.URL.String())
}
