package aigate

import (
	"context"
	"fmt"

	"github.com/mailmind/aigate/pkg/errors"
	"github.com/mailmind/aigate/pkg/provider"
)

// Environment variable names checked by the key fallback, in order.
const (
	EnvOpenRouterKey = "OPENROUTER_API_KEY"
	EnvOpenAIKey     = "OPENAI_API_KEY"
)

// Resolver picks the credential and adapter to use for a call. Every Resolve
// performs a fresh lookup: credentials rotate and deactivate between
// requests, and staleness here would be both a correctness and a security
// hazard, so nothing is cached.
type Resolver struct {
	store CredentialSource
	opts  settings
}

// NewResolver creates a resolver over the given credential source. A nil
// store restricts resolution to the environment fallback, which suits
// single-tenant deployments configured purely through the process
// environment.
func NewResolver(store CredentialSource, opts ...Option) *Resolver {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &Resolver{store: store, opts: s}
}

// Resolve selects a credential for the user and returns the facade backed by
// the matching adapter. Selection order, short-circuiting on first match:
//
//  1. the user's active credential for preferredProvider, when given
//  2. the user's active default credential
//  3. any active credential of the user (newest first)
//  4. environment keys: OPENROUTER_API_KEY, then OPENAI_API_KEY
//
// When nothing matches it fails with a NotConfiguredError, the single
// terminal failure mode of the resolution path.
func (r *Resolver) Resolve(ctx context.Context, userID, preferredProvider string) (*Client, error) {
	cred, err := r.lookup(ctx, userID, preferredProvider)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		cred = r.envCredential()
	}
	if cred == nil {
		return nil, errors.NewNotConfiguredError()
	}

	return NewClient(*cred, r.clientOptions()...)
}

// IsConfigured mirrors Resolve's lookup order but stops at existence: true
// when the user has any active credential or an environment key is present.
func (r *Resolver) IsConfigured(ctx context.Context, userID string) (bool, error) {
	if r.store != nil && userID != "" {
		cred, err := r.store.FindAnyActiveByUser(ctx, userID)
		if err != nil {
			return false, fmt.Errorf("query credentials: %w", err)
		}
		if cred != nil {
			return true, nil
		}
	}
	return r.envCredential() != nil, nil
}

func (r *Resolver) lookup(ctx context.Context, userID, preferredProvider string) (*Credential, error) {
	if r.store == nil || userID == "" {
		return nil, nil
	}

	if preferredProvider != "" {
		cred, err := r.store.FindActiveByUserAndProvider(ctx, userID, preferredProvider)
		if err != nil {
			return nil, fmt.Errorf("query credentials: %w", err)
		}
		if cred != nil {
			return cred, nil
		}
	}

	cred, err := r.store.FindActiveDefaultByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	if cred != nil {
		return cred, nil
	}

	cred, err = r.store.FindAnyActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	return cred, nil
}

// envCredential builds a credential from process-wide environment keys,
// OpenRouter first. Config is left empty so provider defaults apply.
func (r *Resolver) envCredential() *Credential {
	if key, ok := r.opts.lookupEnv(EnvOpenRouterKey); ok && key != "" {
		return &Credential{Provider: provider.OpenRouter, SecretKey: key}
	}
	if key, ok := r.opts.lookupEnv(EnvOpenAIKey); ok && key != "" {
		return &Credential{Provider: provider.OpenAI, SecretKey: key}
	}
	return nil
}

func (r *Resolver) clientOptions() []Option {
	return []Option{
		WithHTTPClient(r.opts.httpClient),
		WithTimeout(r.opts.timeout),
		WithLogger(r.opts.logger),
		WithUsageRecorder(r.opts.recorder),
	}
}
