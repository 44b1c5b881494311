// Package openrouter provides the OpenRouter provider adapter. OpenRouter is
// OpenAI-compatible on the wire; the only additions are the app-identifying
// headers it asks integrators to send.
// API Reference: https://openrouter.ai/docs
package openrouter

import (
	"github.com/mailmind/aigate/pkg/provider"
	"github.com/mailmind/aigate/providers/openailike"
)

const (
	// ProviderName is the identifier for this provider.
	ProviderName = provider.OpenRouter

	// DefaultBaseURL is the default OpenRouter API endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
)

// App-identifying headers. The referer can be overridden through
// provider.Config.Headers when the deployment knows its public URL.
const (
	defaultReferer = "http://localhost:5000"
	appTitle       = "MailMind AI"
)

var providerInfo = openailike.Info{
	Name:           ProviderName,
	DefaultBaseURL: DefaultBaseURL,
	ExtraHeaders: map[string]string{
		"HTTP-Referer": defaultReferer,
		"X-Title":      appTitle,
	},
}

// Adapter wraps the OpenAI-like adapter for OpenRouter.
type Adapter struct {
	*openailike.Adapter
}

// New creates a new OpenRouter adapter with the given options.
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
	return &Adapter{Adapter: base.(*openailike.Adapter)}, nil
}
