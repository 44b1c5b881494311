// Package anthropic provides the Anthropic Claude provider adapter. It
// translates between the normalized OpenAI shape and Anthropic's Messages
// API: the system message is lifted out of the messages array into the
// top-level system field, auth uses x-api-key plus an explicit
// anthropic-version header, and token usage is the sum of input and output
// counts.
package anthropic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mailmind/aigate/pkg/errors"
	"github.com/mailmind/aigate/pkg/provider"
	"github.com/mailmind/aigate/pkg/types"
	"github.com/mailmind/aigate/providers/openailike"
)

const (
	// ProviderName is the identifier for this provider.
	ProviderName = provider.Anthropic

	// DefaultBaseURL is the default Anthropic API endpoint, including the
	// version segment.
	DefaultBaseURL = "https://api.anthropic.com/v1"

	// DefaultAPIVersion is the anthropic-version header value.
	DefaultAPIVersion = "2023-06-01"
)

// Adapter implements the Anthropic Messages API adapter.
type Adapter struct {
	apiKey     string
	baseURL    string
	apiVersion string
	headers    map[string]string
}

// New creates a new Anthropic adapter with the given options.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		baseURL:    DefaultBaseURL,
		apiVersion: DefaultAPIVersion,
		headers:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromConfig creates an adapter from credential configuration.
func NewFromConfig(cfg provider.Config) (provider.Adapter, error) {
	a := New(
		WithAPIKey(cfg.APIKey),
		WithBaseURL(cfg.BaseURL),
	)
	for k, v := range cfg.Headers {
		a.headers[k] = v
	}
	return a, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return ProviderName }

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID         string         `json:"id"`
	Role       string         `json:"role"`
	Content    []contentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      anthropicUsage `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// BuildRequest creates an HTTP request for the Messages endpoint.
func (a *Adapter) BuildRequest(ctx context.Context, req *types.ChatRequest) (*http.Request, error) {
	anthropicReq := a.transformRequest(req)
	body, err := json.Marshal(anthropicReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimSuffix(a.baseURL, "/") + "/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", a.apiVersion)
	for k, v := range a.headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

func (a *Adapter) transformRequest(req *types.ChatRequest) *anthropicRequest {
	anthropicReq := &anthropicRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	// The Messages API rejects a system role inside messages; it must be
	// extracted into the top-level system field.
	for _, msg := range req.Messages {
		if msg.Role == types.RoleSystem {
			anthropicReq.System = msg.Content
			continue
		}
		anthropicReq.Messages = append(anthropicReq.Messages, anthropicMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	return anthropicReq
}

// ParseResponse synthesizes the normalized shape from an Anthropic response.
func (a *Adapter) ParseResponse(resp *http.Response) (*types.ChatResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var anthropicResp anthropicResponse
	if err := json.Unmarshal(body, &anthropicResp); err != nil {
		return nil, errors.NewMalformedResponseError(ProviderName, "", fmt.Sprintf("unmarshal response: %v", err))
	}
	if len(anthropicResp.Content) == 0 {
		return nil, errors.NewMalformedResponseError(ProviderName, "", "response has no content blocks")
	}

	return a.transformResponse(&anthropicResp), nil
}

func (a *Adapter) transformResponse(resp *anthropicResponse) *types.ChatResponse {
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &types.ChatResponse{
		ID:     resp.ID,
		Object: "chat.completion",
		Model:  resp.Model,
		Choices: []types.Choice{{
			Index:        0,
			Message:      types.ChatMessage{Role: types.RoleAssistant, Content: text.String()},
			FinishReason: mapStopReason(resp.StopReason),
		}},
		Usage: &types.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}
}

func mapStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return "stop"
	case "max_tokens":
		return "length"
	default:
		return reason
	}
}

// MapError converts an Anthropic error response to a typed UpstreamError.
func (a *Adapter) MapError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	message := "unknown error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}
	return openailike.MapStatus(ProviderName, statusCode, message)
}
