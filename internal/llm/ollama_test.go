package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clausebind/clausebind/internal/model"
)

func TestOllamaProvider_Analyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Model != "llama3.1:8b" || req.Stream {
			t.Errorf("unexpected request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:    req.Model,
			Response: `{"contractSummary": "NDA", "issuesToAddress": [], "criteriaMet": []}`,
			Done:     true,
		})
	}))
	defer server.Close()

	p, err := NewOllamaProvider(model.LLMConfig{
		Provider: "ollama",
		Model:    "llama3.1:8b",
		BaseURL:  server.URL,
	})
	if err != nil {
		t.Fatal(err)
	}

	report, err := p.Analyze(context.Background(), AnalyzeRequest{Content: "contract text"})
	if err != nil {
		t.Fatal(err)
	}
	if report.ContractSummary != "NDA" {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestOllamaProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	}))
	defer server.Close()

	p, err := NewOllamaProvider(model.LLMConfig{Model: "missing", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Analyze(context.Background(), AnalyzeRequest{Content: "x"}); err == nil {
		t.Fatal("expected API error")
	}
}

func TestOllamaProvider_RequiresModel(t *testing.T) {
	p, err := NewOllamaProvider(model.LLMConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Analyze(context.Background(), AnalyzeRequest{Content: "x"}); err == nil {
		t.Fatal("expected missing-model error")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p, _ := NewOllamaProvider(model.LLMConfig{BaseURL: server.URL})
	if !p.IsAvailable(context.Background()) {
		t.Error("expected provider available")
	}

	server.Close()
	if p.IsAvailable(context.Background()) {
		t.Error("expected provider unavailable after server shutdown")
	}
}

func TestNewProvider(t *testing.T) {
	if p, err := NewProvider(model.LLMConfig{}); err != nil || p != nil {
		t.Errorf("empty provider should disable drafting, got %v, %v", p, err)
	}
	if _, err := NewProvider(model.LLMConfig{Provider: "carrier-pigeon"}); err == nil {
		t.Error("expected unknown-provider error")
	}
	if _, err := NewProvider(model.LLMConfig{Provider: "openai"}); err == nil {
		t.Error("openai without api key should fail")
	}
	if p, err := NewProvider(model.LLMConfig{Provider: "ollama", Model: "m"}); err != nil || p == nil {
		t.Errorf("ollama provider: %v, %v", p, err)
	}
}
