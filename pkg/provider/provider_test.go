package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	for _, name := range Names() {
		assert.True(t, Valid(name), name)
	}
	assert.False(t, Valid("cohere"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("OpenAI"), "identifiers are case-sensitive")
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "deepseek/deepseek-chat-v3.1:free", DefaultModel(OpenRouter))
	assert.Equal(t, "gpt-3.5-turbo", DefaultModel(OpenAI))
	assert.Equal(t, "gemini-pro", DefaultModel(Gemini))
	assert.Equal(t, "grok-beta", DefaultModel(Grok))
	assert.Equal(t, "claude-3-sonnet-20240229", DefaultModel(Anthropic))

	for _, name := range Names() {
		assert.NotEmpty(t, DefaultBaseURL(name), name)
	}
}
