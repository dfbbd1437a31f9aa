package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaultsWhenNoFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Thresholds.TextMatchMin != 0.18 {
		t.Errorf("expected default text match min 0.18, got %f", cfg.Thresholds.TextMatchMin)
	}
	if !cfg.Cache.Enabled {
		t.Error("expected cache enabled by default")
	}
	if !cfg.Output.IncludeFooter {
		t.Error("expected footer enabled by default")
	}
}

func TestLoadConfigAppliesFileOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `thresholds:
  text_match_min: 0.5
  candidate_limit: 5
cache:
  enabled: false
  memory_ttl: 45m
concurrency:
  workers: 7
llm:
  provider: ollama
  model: llama3.1:8b
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Thresholds.TextMatchMin != 0.5 {
		t.Errorf("expected text match min 0.5 from file, got %f", cfg.Thresholds.TextMatchMin)
	}
	if cfg.Thresholds.CandidateLimit != 5 {
		t.Errorf("expected candidate limit 5 from file, got %d", cfg.Thresholds.CandidateLimit)
	}
	if cfg.Cache.Enabled {
		t.Error("expected cache disabled from file")
	}
	if cfg.Cache.MemoryTTL != 45*time.Minute {
		t.Errorf("expected memory ttl 45m from file, got %v", cfg.Cache.MemoryTTL)
	}
	if cfg.Concurrency.Workers != 7 {
		t.Errorf("expected 7 workers from file, got %d", cfg.Concurrency.Workers)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.Model != "llama3.1:8b" {
		t.Errorf("expected ollama/llama3.1:8b from file, got %s/%s", cfg.LLM.Provider, cfg.LLM.Model)
	}

	// Keys the file does not mention keep their defaults.
	if cfg.Thresholds.HeadingMatchMin != 0.3 {
		t.Errorf("expected default heading match min 0.3, got %f", cfg.Thresholds.HeadingMatchMin)
	}
	if cfg.Cache.DiskTTL != 7*24*time.Hour {
		t.Errorf("expected default disk ttl, got %v", cfg.Cache.DiskTTL)
	}
}

func TestLoadConfigRejectsMalformedValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `thresholds:
  text_match_min: [not, a, number]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(); err == nil {
		t.Error("expected error for malformed threshold value")
	}
}
