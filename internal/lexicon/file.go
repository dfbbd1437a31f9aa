package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML shape of an external lexicon.
type fileFormat struct {
	Structural []string            `yaml:"structural"`
	Synonyms   map[string][]string `yaml:"synonyms"`
	// Extend adds to the built-in vocabulary instead of replacing it.
	Extend bool `yaml:"extend"`
}

// LoadFile reads a lexicon from a YAML file. With extend: true the file's
// entries are merged on top of the built-in vocabulary, which is the usual
// way to add per-jurisdiction terms.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	var spec fileFormat
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if len(spec.Structural) == 0 && len(spec.Synonyms) == 0 {
		return nil, fmt.Errorf("lexicon %s defines no structural tokens or synonyms", path)
	}

	structural := spec.Structural
	synonyms := spec.Synonyms
	if spec.Extend {
		structural = append(append([]string{}, defaultStructural...), spec.Structural...)
		merged := make(map[string][]string, len(defaultSynonyms)+len(spec.Synonyms))
		for k, v := range defaultSynonyms {
			merged[k] = v
		}
		for k, v := range spec.Synonyms {
			merged[k] = append(append([]string{}, merged[k]...), v...)
		}
		synonyms = merged
	}

	return New(structural, synonyms), nil
}

// Load returns the lexicon at path, or the built-in default when path is
// empty.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
