// Package providers provides a unified registry of all adapter factories,
// keyed by the closed provider enumeration. All provider-specific branching
// lives behind Create; callers never switch on a provider name themselves.
package providers

import (
	"sync"

	"github.com/mailmind/aigate/pkg/errors"
	"github.com/mailmind/aigate/pkg/provider"
	"github.com/mailmind/aigate/providers/anthropic"
	"github.com/mailmind/aigate/providers/gemini"
	"github.com/mailmind/aigate/providers/grok"
	"github.com/mailmind/aigate/providers/openai"
	"github.com/mailmind/aigate/providers/openrouter"
)

var (
	registry     = make(map[string]provider.Factory)
	registryOnce sync.Once
	registryMu   sync.RWMutex
)

// Register registers an adapter factory under the given provider name.
func Register(name string, factory provider.Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get returns the factory registered for the given provider name.
func Get(name string) (provider.Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// Create instantiates an adapter for the named provider from credential
// configuration. A name outside the registered enumeration yields an
// UnsupportedProviderError; with a healthy credential store this is
// unreachable, but stored data may predate or postdate the enumeration.
func Create(name string, cfg provider.Config) (provider.Adapter, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, &errors.UnsupportedProviderError{Provider: name}
	}

	return factory(cfg)
}

// List returns all registered provider names.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// RegisterBuiltins registers the five built-in adapter factories. It is
// called automatically on first use.
func RegisterBuiltins() {
	registryOnce.Do(func() {
		Register(provider.OpenRouter, openrouter.NewFromConfig)
		Register(provider.OpenAI, openai.NewFromConfig)
		Register(provider.Gemini, gemini.NewFromConfig)
		Register(provider.Grok, grok.NewFromConfig)
		Register(provider.Anthropic, anthropic.NewFromConfig)
	})
}

func init() {
	RegisterBuiltins()
}
