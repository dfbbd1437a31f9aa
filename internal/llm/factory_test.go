package llm

import (
	"testing"

	"github.com/clausebind/clausebind/internal/model"
)

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(model.LLMConfig{})
	if err != nil {
		t.Errorf("expected no error for empty provider, got %v", err)
	}
	if p != nil {
		t.Errorf("expected nil provider for empty provider name, got %T", p)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	p, err := NewProvider(model.LLMConfig{Provider: "anthropic"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if p != nil {
		t.Errorf("expected nil provider on error, got %T", p)
	}
}

func TestNewProviderFailureReturnsBareNil(t *testing.T) {
	// A failed constructor must not leak a typed nil pointer through the
	// interface; p == nil has to hold for callers that branch on it.
	p, err := NewProvider(model.LLMConfig{Provider: "openai"})
	if err == nil {
		t.Fatal("expected error for openai without an api key")
	}
	if p != nil {
		t.Errorf("expected bare nil provider on constructor failure, got %T", p)
	}
}

func TestNewProviderCaseInsensitive(t *testing.T) {
	p, err := NewProvider(model.LLMConfig{Provider: "Ollama"})
	if err != nil {
		t.Fatalf("expected ollama provider, got error %v", err)
	}
	if p == nil || p.Name() != "ollama" {
		t.Errorf("expected ollama provider, got %v", p)
	}
}
