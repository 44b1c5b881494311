// Package openai provides the OpenAI provider adapter. Chat completions ride
// the shared OpenAI-like base; the package adds the images/generations
// endpoint, which is the one image backend the application uses.
package openai

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
	ProviderName = provider.OpenAI

	// DefaultBaseURL is the default OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"
)

var providerInfo = openailike.Info{
	Name:           ProviderName,
	DefaultBaseURL: DefaultBaseURL,
}

// Adapter implements the OpenAI API adapter, including image generation.
type Adapter struct {
	*openailike.Adapter

	apiKey string
}

// New creates a new OpenAI adapter with the given options.
func New(opts ...openailike.Option) *Adapter {
	return &Adapter{
		Adapter: openailike.New(providerInfo, opts...),
	}
}

// NewFromConfig creates an adapter from credential configuration.
func NewFromConfig(cfg provider.Config) (provider.Adapter, error) {
	base, err := openailike.NewFromConfig(providerInfo, cfg)
	if err != nil {
		return nil, err
	}
	return &Adapter{
		Adapter: base.(*openailike.Adapter),
		apiKey:  cfg.APIKey,
	}, nil
}

// BuildImageRequest creates an HTTP request for the images/generations
// endpoint.
func (a *Adapter) BuildImageRequest(ctx context.Context, req *types.ImageRequest) (*http.Request, error) {
	payload := struct {
		Prompt string `json:"prompt"`
		N      int    `json:"n"`
		Size   string `json:"size,omitempty"`
	}{
		Prompt: req.Prompt,
		N:      req.N,
		Size:   req.Size,
	}
	if payload.N <= 0 {
		payload.N = 1
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimSuffix(a.BaseURL(), "/") + "/images/generations"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	return httpReq, nil
}

// ParseImageResponse decodes the images/generations response.
func (a *Adapter) ParseImageResponse(resp *http.Response) (*types.ImageResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var imgResp types.ImageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return nil, errors.NewMalformedResponseError(ProviderName, "", fmt.Sprintf("unmarshal response: %v", err))
	}

	return &imgResp, nil
}
