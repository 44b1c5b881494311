package openrouter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailmind/aigate/pkg/provider"
	"github.com/mailmind/aigate/pkg/types"
	"github.com/mailmind/aigate/providers/openailike"
)

func TestBuildRequest_AttributionHeaders(t *testing.T) {
	adapter := New(openailike.WithAPIKey("sk-or-test"))

	httpReq, err := adapter.BuildRequest(context.Background(), &types.ChatRequest{
		Model:    "deepseek/deepseek-chat-v3.1:free",
		Messages: []types.ChatMessage{{Role: types.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", httpReq.URL.String())
	assert.Equal(t, "Bearer sk-or-test", httpReq.Header.Get("Authorization"))
	assert.Equal(t, defaultReferer, httpReq.Header.Get("HTTP-Referer"))
	assert.Equal(t, appTitle, httpReq.Header.Get("X-Title"))
}

func TestNewFromConfig_HeaderOverride(t *testing.T) {
	adapter, err := NewFromConfig(provider.Config{
		APIKey:  "sk-or-test",
		Headers: map[string]string{"HTTP-Referer": "https://mailmind.example.com"},
	})
	require.NoError(t, err)
	require.IsType(t, &Adapter{}, adapter)

	httpReq, err := adapter.BuildRequest(context.Background(), &types.ChatRequest{
		Model:    "m",
		Messages: []types.ChatMessage{{Role: types.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://mailmind.example.com", httpReq.Header.Get("HTTP-Referer"))
}
