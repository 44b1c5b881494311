package aigate

import (
	"context"

	"github.com/mailmind/aigate/pkg/provider"
)

// Credential is the resolved view of one stored provider credential: just
// what the facade needs to construct an adapter. The durable record with its
// flags, usage counters and metadata lives behind CredentialSource.
type Credential struct {
	// ID identifies the durable record, "" for environment-sourced keys.
	ID string

	// Provider is a member of the closed provider enumeration.
	Provider string

	// SecretKey is the bearer credential. It is closed over by the adapter
	// and never logged or serialized.
	SecretKey string

	// Config carries per-credential model configuration overrides.
	Config provider.ModelConfig
}

// CredentialSource is the narrow query interface the resolver reads stored
// credentials through. All three lookups consider active credentials only
// and return (nil, nil) when nothing matches; errors are reserved for store
// failures.
type CredentialSource interface {
	// FindActiveByUserAndProvider returns the user's active credential for
	// the exact provider, if any.
	FindActiveByUserAndProvider(ctx context.Context, userID, providerName string) (*Credential, error)

	// FindActiveDefaultByUser returns the user's active default credential,
	// if any.
	FindActiveDefaultByUser(ctx context.Context, userID string) (*Credential, error)

	// FindAnyActiveByUser returns any active credential of the user, newest
	// first as the deterministic tie-break.
	FindAnyActiveByUser(ctx context.Context, userID string) (*Credential, error)
}

// UsageRecorder attributes a successful call to the credential that made it.
// The facade invokes it after each success so adapters stay pure translators.
// Implementations must tolerate concurrent calls.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, credentialID string, tokens int) error
}

// EnvLookup resolves a process-environment key. Injected rather than read
// directly so the resolver stays testable without process-level mocking.
type EnvLookup func(name string) (string, bool)
