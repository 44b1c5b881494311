// Package openailike provides a base implementation for OpenAI-compatible
// providers. OpenRouter, OpenAI and Grok all accept OpenAI-shaped bodies and
// return OpenAI-shaped responses; they differ only in endpoint, auth header
// and app-identifying headers, which Info captures.
package openailike

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
)

// Info contains the per-vendor constants of an OpenAI-compatible provider.
type Info struct {
	// Name is the canonical provider identifier (e.g. "openrouter").
	Name string

	// DefaultBaseURL is the default API endpoint.
	DefaultBaseURL string

	// ChatEndpoint is the path for chat completions.
	// Default: "/chat/completions".
	ChatEndpoint string

	// APIKeyHeader is the header carrying the credential.
	// Default: "Authorization" with "Bearer " prefix.
	APIKeyHeader string

	// APIKeyPrefix is the prefix for the API key value.
	APIKeyPrefix string

	// ExtraHeaders are vendor-required headers added to every request.
	ExtraHeaders map[string]string
}

// Adapter implements a generic OpenAI-compatible provider adapter.
type Adapter struct {
	info    Info
	apiKey  string
	baseURL string
	headers map[string]string
}

// New creates an OpenAI-like adapter.
func New(info Info, opts ...Option) *Adapter {
	a := &Adapter{
		info:    info,
		baseURL: info.DefaultBaseURL,
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromConfig creates an adapter from credential configuration.
func NewFromConfig(info Info, cfg provider.Config) (provider.Adapter, error) {
	a := New(info,
		WithAPIKey(cfg.APIKey),
		WithBaseURL(cfg.BaseURL),
	)
	for k, v := range cfg.Headers {
		a.headers[k] = v
	}
	return a, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return a.info.Name
}

// BaseURL returns the effective API endpoint.
func (a *Adapter) BaseURL() string {
	return a.baseURL
}

// BuildRequest creates an HTTP request for the vendor's chat endpoint. The
// normalized request marshals directly since the wire format is OpenAI's own.
func (a *Adapter) BuildRequest(ctx context.Context, req *types.ChatRequest) (*http.Request, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := a.info.ChatEndpoint
	if endpoint == "" {
		endpoint = "/chat/completions"
	}

	url := strings.TrimSuffix(a.baseURL, "/") + endpoint
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	apiKeyHeader := a.info.APIKeyHeader
	if apiKeyHeader == "" {
		apiKeyHeader = "Authorization"
	}
	apiKeyPrefix := a.info.APIKeyPrefix
	if apiKeyPrefix == "" && apiKeyHeader == "Authorization" {
		apiKeyPrefix = "Bearer "
	}
	httpReq.Header.Set(apiKeyHeader, apiKeyPrefix+a.apiKey)

	for k, v := range a.info.ExtraHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range a.headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// ParseResponse decodes the vendor response, which is already normalized.
func (a *Adapter) ParseResponse(resp *http.Response) (*types.ChatResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chatResp types.ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, errors.NewMalformedResponseError(a.info.Name, "", fmt.Sprintf("unmarshal response: %v", err))
	}

	return &chatResp, nil
}

// MapError converts an OpenAI-style error payload to a typed UpstreamError.
func (a *Adapter) MapError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	message := "unknown error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return MapStatus(a.info.Name, statusCode, message)
}

// MapStatus maps an HTTP status and vendor message onto the typed taxonomy.
// Shared by every adapter so status handling never diverges between vendors.
func MapStatus(providerName string, statusCode int, message string) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewAuthenticationError(providerName, "", message)
	case http.StatusTooManyRequests:
		return errors.NewRateLimitError(providerName, "", message)
	case http.StatusBadRequest:
		return errors.NewInvalidRequestError(providerName, "", message)
	case http.StatusNotFound:
		return errors.NewNotFoundError(providerName, "", message)
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return errors.NewServiceUnavailableError(providerName, "", message)
	default:
		return errors.NewInternalError(providerName, "", message)
	}
}
