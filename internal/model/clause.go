package model

import "strings"

// Clause represents one extracted, addressable contract provision.
// Clauses are produced by the upstream extractor and are read-only here.
type Clause struct {
	ID             string          `json:"id,omitempty"`
	ClauseID       string          `json:"clauseId,omitempty"`
	Title          string          `json:"title,omitempty"`
	OriginalText   string          `json:"originalText,omitempty"`
	NormalizedText string          `json:"normalizedText,omitempty"`
	Location       *ClauseLocation `json:"location,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
}

// ClauseLocation pinpoints a clause inside the source document.
// All fields are optional; extractors frequently omit them.
type ClauseLocation struct {
	Page         *int   `json:"page,omitempty"`
	Paragraph    *int   `json:"paragraph,omitempty"`
	Section      string `json:"section,omitempty"`
	ClauseNumber string `json:"clauseNumber,omitempty"`
}

// Key returns the stable identifier for the clause, preferring clauseId
// and falling back to id.
func (c *Clause) Key() string {
	if c.ClauseID != "" {
		return c.ClauseID
	}
	return c.ID
}

// Text returns the clause body, preferring the original text over the
// normalized variant.
func (c *Clause) Text() string {
	if strings.TrimSpace(c.OriginalText) != "" {
		return c.OriginalText
	}
	return c.NormalizedText
}

// FindClause looks a clause up by its stable key (clauseId or id).
func FindClause(clauses []Clause, key string) *Clause {
	if key == "" {
		return nil
	}
	for i := range clauses {
		if clauses[i].Key() == key || clauses[i].ID == key {
			return &clauses[i]
		}
	}
	return nil
}
