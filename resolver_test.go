package aigate

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aierrors "github.com/mailmind/aigate/pkg/errors"
	"github.com/mailmind/aigate/pkg/provider"
)

// fakeSource is an in-memory CredentialSource with per-method results.
type fakeSource struct {
	byProvider  map[string]*Credential
	defaultCred *Credential
	anyCred     *Credential
	err         error
}

func (f *fakeSource) FindActiveByUserAndProvider(ctx context.Context, userID, providerName string) (*Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byProvider[providerName], nil
}

func (f *fakeSource) FindActiveDefaultByUser(ctx context.Context, userID string) (*Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.defaultCred, nil
}

func (f *fakeSource) FindAnyActiveByUser(ctx context.Context, userID string) (*Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.anyCred, nil
}

func noEnv(string) (string, bool) { return "", false }

func envWith(vars map[string]string) EnvLookup {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestResolve_PreferredProviderWins(t *testing.T) {
	source := &fakeSource{
		byProvider: map[string]*Credential{
			provider.Gemini: {ID: "1", Provider: provider.Gemini, SecretKey: "gemini-key"},
		},
		defaultCred: &Credential{ID: "2", Provider: provider.OpenAI, SecretKey: "openai-key"},
	}
	resolver := NewResolver(source, WithEnvLookup(noEnv))

	client, err := resolver.Resolve(context.Background(), "user-1", provider.Gemini)
	require.NoError(t, err)
	assert.Equal(t, provider.Gemini, client.Provider())
}

func TestResolve_FallsBackToDefaultWhenPreferredMissing(t *testing.T) {
	source := &fakeSource{
		defaultCred: &Credential{ID: "2", Provider: provider.OpenAI, SecretKey: "openai-key"},
	}
	resolver := NewResolver(source, WithEnvLookup(noEnv))

	client, err := resolver.Resolve(context.Background(), "user-1", provider.Grok)
	require.NoError(t, err)
	assert.Equal(t, provider.OpenAI, client.Provider())
}

func TestResolve_FallsBackToAnyActive(t *testing.T) {
	source := &fakeSource{
		anyCred: &Credential{ID: "3", Provider: provider.Anthropic, SecretKey: "ant-key"},
	}
	resolver := NewResolver(source, WithEnvLookup(noEnv))

	client, err := resolver.Resolve(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, provider.Anthropic, client.Provider())
}

func TestResolve_EnvFallbackOrder(t *testing.T) {
	resolver := NewResolver(&fakeSource{}, WithEnvLookup(envWith(map[string]string{
		EnvOpenRouterKey: "or-key",
		EnvOpenAIKey:     "oa-key",
	})))

	client, err := resolver.Resolve(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, provider.OpenRouter, client.Provider(), "openrouter env key takes precedence")

	resolver = NewResolver(&fakeSource{}, WithEnvLookup(envWith(map[string]string{
		EnvOpenAIKey: "oa-key",
	})))

	client, err = resolver.Resolve(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, provider.OpenAI, client.Provider())
}

func TestResolve_NothingConfigured(t *testing.T) {
	resolver := NewResolver(&fakeSource{}, WithEnvLookup(noEnv))

	_, err := resolver.Resolve(context.Background(), "user-1", "")
	require.Error(t, err)
	assert.True(t, aierrors.IsNotConfigured(err))

	var notConfigured *aierrors.NotConfiguredError
	require.ErrorAs(t, err, &notConfigured)
	assert.Equal(t, aierrors.CodeNotConfigured, notConfigured.Code())
	assert.NotEmpty(t, notConfigured.Action)
}

func TestResolve_NilStoreUsesEnvOnly(t *testing.T) {
	resolver := NewResolver(nil, WithEnvLookup(envWith(map[string]string{
		EnvOpenRouterKey: "or-key",
	})))

	client, err := resolver.Resolve(context.Background(), "user-1", provider.Gemini)
	require.NoError(t, err)
	assert.Equal(t, provider.OpenRouter, client.Provider())
}

func TestResolve_StoreErrorIsNotMaskedAsNotConfigured(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("connection refused")}
	resolver := NewResolver(source, WithEnvLookup(noEnv))

	_, err := resolver.Resolve(context.Background(), "user-1", "")
	require.Error(t, err)
	assert.False(t, aierrors.IsNotConfigured(err))
	assert.Contains(t, err.Error(), "query credentials")
}

func TestIsConfigured(t *testing.T) {
	source := &fakeSource{anyCred: &Credential{ID: "1", Provider: provider.OpenAI, SecretKey: "k"}}
	resolver := NewResolver(source, WithEnvLookup(noEnv))

	ok, err := resolver.IsConfigured(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	resolver = NewResolver(&fakeSource{}, WithEnvLookup(noEnv))
	ok, err = resolver.IsConfigured(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	resolver = NewResolver(&fakeSource{}, WithEnvLookup(envWith(map[string]string{EnvOpenAIKey: "k"})))
	ok, err = resolver.IsConfigured(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResolve_UnknownStoredProvider(t *testing.T) {
	source := &fakeSource{
		anyCred: &Credential{ID: "9", Provider: "cohere", SecretKey: "k"},
	}
	resolver := NewResolver(source, WithEnvLookup(noEnv))

	_, err := resolver.Resolve(context.Background(), "user-1", "")

	var unsupported *aierrors.UnsupportedProviderError
	require.ErrorAs(t, err, &unsupported)
}
