package llm

import "errors"

const (
	defaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel = "openai/gpt-4o-mini"
)

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter. Routed
// models do not all honour json_schema, so it asks for a plain JSON object
// and validates locally.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider builds an OpenRouterProvider from cfg.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenRouterURL
	}
	model := resolveModel(cfg.Model, defaultOpenRouterModel, nil)
	return &OpenRouterProvider{OpenAIProvider: newOpenAICompatible(cfg.APIKey, base, model, false)}, nil
}
