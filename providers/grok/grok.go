// Package grok provides the xAI Grok provider adapter. Grok's API is
// OpenAI-compatible, so the adapter is a thin wrapper over openailike.
package grok

import (
	"github.com/mailmind/aigate/pkg/provider"
	"github.com/mailmind/aigate/providers/openailike"
)

const (
	// ProviderName is the identifier for this provider.
	ProviderName = provider.Grok

	// DefaultBaseURL is the default xAI API endpoint.
	DefaultBaseURL = "https://api.x.ai/v1"
)

var providerInfo = openailike.Info{
	Name:           ProviderName,
	DefaultBaseURL: DefaultBaseURL,
}

// Adapter wraps the OpenAI-like adapter for Grok.
type Adapter struct {
	*openailike.Adapter
}

// New creates a new Grok adapter with the given options.
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
