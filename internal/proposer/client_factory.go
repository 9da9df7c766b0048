package proposer

import (
	"fmt"

	"wayfarer/internal/config"
)

// NewFromConfig builds the content-proposer client selected by the
// configuration. The client is constructed once at process start and
// injected into every component.
func NewFromConfig(cfg *config.Config) (Client, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q (set GEMINI_API_KEY or OPENAI_API_KEY)", cfg.LLM.Provider)
	}

	switch cfg.LLM.Provider {
	case "gemini", "":
		gc := DefaultGeminiConfig(cfg.LLM.APIKey)
		gc.Timeout = cfg.LLMTimeout()
		if cfg.LLM.Model != "" {
			gc.Model = cfg.LLM.Model
		}
		if cfg.LLM.BaseURL != "" {
			gc.BaseURL = cfg.LLM.BaseURL
		}
		return NewGeminiClientWithConfig(gc), nil

	case "openai":
		oc := DefaultOpenAIConfig(cfg.LLM.APIKey)
		oc.Timeout = cfg.LLMTimeout()
		if cfg.LLM.Model != "" {
			oc.Model = cfg.LLM.Model
		}
		if cfg.LLM.BaseURL != "" {
			oc.BaseURL = cfg.LLM.BaseURL
		}
		return NewOpenAIClientWithConfig(oc), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.LLM.Provider)
	}
}
