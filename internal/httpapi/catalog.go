package httpapi

import "github.com/mailmind/aigate/pkg/provider"

// ModelInfo is one entry of the static per-provider model catalog.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Free bool   `json:"free,omitempty"`
}

// modelCatalog is served as-is; it is a UI convenience, not a live listing.
var modelCatalog = map[string][]ModelInfo{
	provider.OpenRouter: {
		{ID: "deepseek/deepseek-chat-v3.1:free", Name: "DeepSeek Chat v3.1", Free: true},
		{ID: "meta-llama/llama-3.1-8b-instruct:free", Name: "Llama 3.1 8B Instruct", Free: true},
		{ID: "mistralai/mistral-7b-instruct:free", Name: "Mistral 7B Instruct", Free: true},
		{ID: "google/gemma-2-9b-it:free", Name: "Gemma 2 9B", Free: true},
		{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku"},
		{ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini"},
	},
	provider.OpenAI: {
		{ID: "gpt-4-turbo-preview", Name: "GPT-4 Turbo"},
		{ID: "gpt-4", Name: "GPT-4"},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo"},
	},
	provider.Gemini: {
		{ID: "gemini-pro", Name: "Gemini Pro"},
		{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro"},
		{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash"},
	},
	provider.Grok: {
		{ID: "grok-beta", Name: "Grok Beta"},
		{ID: "grok-2", Name: "Grok 2"},
	},
	provider.Anthropic: {
		{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus"},
		{ID: "claude-3-sonnet-20240229", Name: "Claude 3 Sonnet"},
		{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku"},
	},
}
