package llm

import (
	"fmt"
	"strings"

	"github.com/clausebind/clausebind/internal/model"
)

// NewProvider creates a provider from configuration. An empty provider name
// means drafting is disabled; the caller then works from pre-drafted
// reports only.
// The error branches return a bare nil, never a typed nil pointer wrapped
// in the interface, so callers can rely on a plain == nil check.
func NewProvider(config model.LLMConfig) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "ollama":
		p, err := NewOllamaProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: openai, ollama)", config.Provider)
	}
}
