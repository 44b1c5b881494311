// Package aigate provides a uniform chat-completion client over five AI
// vendors (OpenRouter, OpenAI, Gemini, Grok, Anthropic). Feature code never
// talks to a vendor directly: it asks the Resolver for a client, which picks
// the right credential for the user through a layered fallback policy and
// returns a provider-agnostic facade.
//
// Basic usage:
//
//	resolver := aigate.NewResolver(store)
//	client, err := resolver.Resolve(ctx, userID, "")
//	if err != nil {
//	    return err // aierrors.IsNotConfigured(err) when nothing is set up
//	}
//	resp, err := client.ChatCompletion(ctx, &aigate.ChatRequest{
//	    Messages: []aigate.ChatMessage{{Role: "user", Content: "Hello!"}},
//	})
package aigate

import (
	"github.com/mailmind/aigate/pkg/provider"
	"github.com/mailmind/aigate/pkg/types"
)

// Version is the current version of aigate.
const Version = "1.2.0"

// Re-export core request/response types for convenience.
type (
	// ChatRequest is the normalized chat completion request.
	ChatRequest = types.ChatRequest

	// ChatResponse is the normalized chat completion response.
	ChatResponse = types.ChatResponse

	// ChatMessage is a single message in the conversation.
	ChatMessage = types.ChatMessage

	// Usage contains token usage statistics for a request.
	Usage = types.Usage

	// Choice is a single completion choice.
	Choice = types.Choice

	// ImageRequest is the normalized image generation request.
	ImageRequest = types.ImageRequest

	// ImageResponse is the normalized image generation response.
	ImageResponse = types.ImageResponse
)

// Re-export provider types.
type (
	// Adapter is the vendor translation interface.
	Adapter = provider.Adapter

	// ModelConfig is the per-credential generation configuration.
	ModelConfig = provider.ModelConfig

	// ProviderConfig is the credential material an adapter is built from.
	ProviderConfig = provider.Config
)
