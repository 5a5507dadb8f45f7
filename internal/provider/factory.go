package provider

import "fmt"

// New builds a provider from its ID. "gemini" talks to the native Gemini
// API; "openai" covers every OpenAI-compatible endpoint, OpenRouter
// included.
func New(id, apiKey, apiBase, model string) (LLMProvider, error) {
	switch id {
	case "", "gemini":
		return NewGeminiProvider(apiKey, apiBase, model), nil
	case "openai", "openrouter", "openai-compatible":
		return NewOpenAIProvider(apiKey, apiBase, model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", id)
	}
}
