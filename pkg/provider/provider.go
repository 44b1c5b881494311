// Package provider defines the adapter interface every AI vendor integration
// implements, together with the closed provider enumeration and the
// per-provider defaults used when a credential carries no explicit
// configuration.
package provider

import (
	"context"
	"net/http"

	"github.com/mailmind/aigate/pkg/types"
)

// Canonical provider identifiers. The enumeration is closed: stored
// credentials naming anything else are a configuration-integrity error.
const (
	OpenRouter = "openrouter"
	OpenAI     = "openai"
	Gemini     = "gemini"
	Grok       = "grok"
	Anthropic  = "anthropic"
)

// Names returns the closed provider enumeration in display order.
func Names() []string {
	return []string{OpenRouter, OpenAI, Gemini, Grok, Anthropic}
}

// Valid reports whether name is a member of the provider enumeration.
func Valid(name string) bool {
	switch name {
	case OpenRouter, OpenAI, Gemini, Grok, Anthropic:
		return true
	}
	return false
}

// Hard-coded generation defaults, applied when neither the call site nor the
// stored credential config specifies a value.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1500
)

var defaultModels = map[string]string{
	OpenRouter: "deepseek/deepseek-chat-v3.1:free",
	OpenAI:     "gpt-3.5-turbo",
	Gemini:     "gemini-pro",
	Grok:       "grok-beta",
	Anthropic:  "claude-3-sonnet-20240229",
}

var defaultBaseURLs = map[string]string{
	OpenRouter: "https://openrouter.ai/api/v1",
	OpenAI:     "https://api.openai.com/v1",
	Gemini:     "https://generativelanguage.googleapis.com/v1",
	Grok:       "https://api.x.ai/v1",
	Anthropic:  "https://api.anthropic.com/v1",
}

// DefaultModel returns the default model id for the provider.
func DefaultModel(name string) string {
	if m, ok := defaultModels[name]; ok {
		return m
	}
	return defaultModels[OpenAI]
}

// DefaultBaseURL returns the default API endpoint for the provider.
func DefaultBaseURL(name string) string {
	if u, ok := defaultBaseURLs[name]; ok {
		return u
	}
	return defaultBaseURLs[OpenRouter]
}

// ModelConfig is the per-credential generation configuration. Zero values
// mean "unset"; the facade resolves call-site override, then this config,
// then the hard defaults above.
type ModelConfig struct {
	Model       string
	Temperature *float64
	MaxTokens   int
	BaseURL     string
}

// Adapter translates the normalized request shape into one vendor's wire
// format and the vendor's response shape back. Adapters are pure translators:
// they never perform I/O themselves and carry no per-call state.
type Adapter interface {
	// Name returns the canonical provider identifier.
	Name() string

	// BuildRequest transforms a normalized ChatRequest into a vendor-specific
	// HTTP request: endpoint, auth headers, and body field mapping.
	BuildRequest(ctx context.Context, req *types.ChatRequest) (*http.Request, error)

	// ParseResponse transforms a successful vendor response into the
	// normalized ChatResponse.
	ParseResponse(resp *http.Response) (*types.ChatResponse, error)

	// MapError converts a non-2xx vendor response into a typed UpstreamError.
	MapError(statusCode int, body []byte) error
}

// ImageAdapter is implemented by adapters whose vendor exposes an image
// generation endpoint.
type ImageAdapter interface {
	BuildImageRequest(ctx context.Context, req *types.ImageRequest) (*http.Request, error)
	ParseImageResponse(resp *http.Response) (*types.ImageResponse, error)
}

// Config carries the credential material an adapter is constructed with.
type Config struct {
	APIKey  string
	BaseURL string
	Headers map[string]string
}

// Factory creates an adapter instance from credential configuration.
type Factory func(cfg Config) (Adapter, error)
