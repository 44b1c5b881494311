package openai

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
)

func TestBuildImageRequest(t *testing.T) {
	adapter, err := NewFromConfig(provider.Config{APIKey: "sk-test"})
	require.NoError(t, err)

	imgAdapter, ok := adapter.(provider.ImageAdapter)
	require.True(t, ok)

	httpReq, err := imgAdapter.BuildImageRequest(context.Background(), &types.ImageRequest{
		Prompt: "a lighthouse at dusk",
		Size:   "1024x1024",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1/images/generations", httpReq.URL.String())
	assert.Equal(t, "Bearer sk-test", httpReq.Header.Get("Authorization"))

	body, err := io.ReadAll(httpReq.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "a lighthouse at dusk", payload["prompt"])
	assert.EqualValues(t, 1, payload["n"], "n defaults to 1")
	assert.Equal(t, "1024x1024", payload["size"])
}

func TestParseImageResponse(t *testing.T) {
	adapter, err := NewFromConfig(provider.Config{APIKey: "sk-test"})
	require.NoError(t, err)

	imgAdapter := adapter.(provider.ImageAdapter)

	raw := `{"created": 1700000000, "data": [{"url": "https://img.test/1.png"}]}`
	resp := &http.Response{Body: io.NopCloser(strings.NewReader(raw))}

	imgResp, err := imgAdapter.ParseImageResponse(resp)
	require.NoError(t, err)

	require.Len(t, imgResp.Data, 1)
	assert.Equal(t, "https://img.test/1.png", imgResp.Data[0].URL)
}

func TestChatRidesSharedBase(t *testing.T) {
	adapter, err := NewFromConfig(provider.Config{APIKey: "sk-test"})
	require.NoError(t, err)

	httpReq, err := adapter.BuildRequest(context.Background(), &types.ChatRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []types.ChatMessage{{Role: types.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1/chat/completions", httpReq.URL.String())
	assert.Equal(t, "Bearer sk-test", httpReq.Header.Get("Authorization"))
}
