package model

import "time"

// Config is the full runtime configuration, assembled from defaults, the
// config file, CLAUSEBIND_* environment variables, and CLI flags.
type Config struct {
	LexiconPath string            `yaml:"lexicon_path" json:"lexiconPath"`
	Thresholds  Thresholds        `yaml:"thresholds" json:"thresholds"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Debug       DebugConfig       `yaml:"debug" json:"debug"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
}

// CacheConfig controls the re-run cache for batch grounding.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memoryTTL"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"diskTTL"`
}

// ConcurrencyConfig controls batch worker counts.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"includeFooter"`
}

// DebugConfig controls the evidence debug channel. When Evidence is on, the
// pipeline wires a collecting trace sink and attaches its records to
// metadata.evidenceDebug; returned data is otherwise unaffected.
type DebugConfig struct {
	Evidence bool `yaml:"evidence" json:"evidence"`
}

// LLMConfig configures the optional draft-analysis collaborator. The
// collaborator produces draft reports; its output always passes through the
// grounding engine and never reaches callers directly.
type LLMConfig struct {
	Provider      string  `yaml:"provider" json:"provider"`
	Model         string  `yaml:"model" json:"model"`
	APIKey        string  `yaml:"-" json:"-"`
	BaseURL       string  `yaml:"base_url" json:"baseURL"`
	Timeout       int     `yaml:"timeout_seconds" json:"timeoutSeconds"`
	MaxTokens     int     `yaml:"max_tokens" json:"maxTokens"`
	RatePerMinute float64 `yaml:"rate_per_minute" json:"ratePerMinute"`
	HTTPProxy     string  `yaml:"http_proxy" json:"httpProxy"`
	HTTPSProxy    string  `yaml:"https_proxy" json:"httpsProxy"`
	NoProxy       string  `yaml:"no_proxy" json:"noProxy"`
}

// Thresholds carries every tuned constant of the matching pipeline. The
// defaults are the empirically tuned values from production; they are
// configuration, not derived quantities.
type Thresholds struct {
	HeadingMatchMin         float64 `yaml:"heading_match_min" json:"headingMatchMin"`
	TextMatchMin            float64 `yaml:"text_match_min" json:"textMatchMin"`
	HeadingPreferenceMargin float64 `yaml:"heading_preference_margin" json:"headingPreferenceMargin"`
	HeadingHintStrong       float64 `yaml:"heading_hint_strong" json:"headingHintStrong"`
	HeadingHintSlack        float64 `yaml:"heading_hint_slack" json:"headingHintSlack"`
	CandidateLimit          int     `yaml:"candidate_limit" json:"candidateLimit"`

	ExcerptMaxChars   int     `yaml:"excerpt_max_chars" json:"excerptMaxChars"`
	ExcerptOverlapMax float64 `yaml:"excerpt_overlap_max" json:"excerptOverlapMax"`

	EvidencePrefixChars    int     `yaml:"evidence_prefix_chars" json:"evidencePrefixChars"`
	EvidencePrefixMinChars int     `yaml:"evidence_prefix_min_chars" json:"evidencePrefixMinChars"`
	EvidenceNGramMin       float64 `yaml:"evidence_ngram_min" json:"evidenceNGramMin"`
	ClauseNGramMin         float64 `yaml:"clause_ngram_min" json:"clauseNGramMin"`

	RequirementCoverageShort float64 `yaml:"requirement_coverage_short" json:"requirementCoverageShort"`
	RequirementCoverageLong  float64 `yaml:"requirement_coverage_long" json:"requirementCoverageLong"`
	RequirementShortTokens   int     `yaml:"requirement_short_tokens" json:"requirementShortTokens"`
	RequirementMinHitsLong   int     `yaml:"requirement_min_hits_long" json:"requirementMinHitsLong"`

	StructuralGateSingle int `yaml:"structural_gate_single" json:"structuralGateSingle"`
	StructuralGateMulti  int `yaml:"structural_gate_multi" json:"structuralGateMulti"`

	DuplicateExcerptConfidence float64 `yaml:"duplicate_excerpt_confidence" json:"duplicateExcerptConfidence"`
	EditRedundancy             float64 `yaml:"edit_redundancy" json:"editRedundancy"`
	DedupeSimilarity           float64 `yaml:"dedupe_similarity" json:"dedupeSimilarity"`
	CriterionIssueSimilarity   float64 `yaml:"criterion_issue_similarity" json:"criterionIssueSimilarity"`
}

// DefaultThresholds returns the production-tuned matching constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HeadingMatchMin:         0.3,
		TextMatchMin:            0.18,
		HeadingPreferenceMargin: 0.08,
		HeadingHintStrong:       0.7,
		HeadingHintSlack:        0.05,
		CandidateLimit:          3,

		ExcerptMaxChars:   320,
		ExcerptOverlapMax: 0.6,

		EvidencePrefixChars:    220,
		EvidencePrefixMinChars: 40,
		EvidenceNGramMin:       0.45,
		ClauseNGramMin:         0.50,

		RequirementCoverageShort: 0.5,
		RequirementCoverageLong:  0.35,
		RequirementShortTokens:   3,
		RequirementMinHitsLong:   2,

		StructuralGateSingle: 1,
		StructuralGateMulti:  2,

		DuplicateExcerptConfidence: 0.35,
		EditRedundancy:             0.4,
		DedupeSimilarity:           0.82,
		CriterionIssueSimilarity:   0.5,
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: DefaultThresholds(),
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		Debug: DebugConfig{
			Evidence: false,
		},
		LLM: LLMConfig{
			Provider:      "",
			Model:         "",
			Timeout:       120,
			MaxTokens:     4000,
			RatePerMinute: 20,
		},
	}
}
