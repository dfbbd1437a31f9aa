// Package ingest loads the engine's external inputs from disk: the draft
// analysis report, the extracted clauses, the raw contract content, and the
// playbook. Everything arrives as plain JSON or YAML produced by external
// collaborators; parsing is forgiving about envelope shape but never about
// syntax.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/clausebind/clausebind/internal/model"
)

// LoadReport reads a draft analysis report from a JSON file.
func LoadReport(path string) (*model.AnalysisReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var report model.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &report, nil
}

// clauseEnvelope is the wrapped clause-list shape some extractors emit.
type clauseEnvelope struct {
	Clauses []model.Clause `json:"clauses"`
}

// LoadClauses reads extracted clauses from a JSON file. Accepts either a
// bare array or a {"clauses": [...]} envelope.
func LoadClauses(path string) ([]model.Clause, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clauses: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var clauses []model.Clause
		if err := json.Unmarshal(data, &clauses); err != nil {
			return nil, fmt.Errorf("parse clauses %s: %w", path, err)
		}
		return clauses, nil
	}

	var env clauseEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse clauses %s: %w", path, err)
	}
	return env.Clauses, nil
}

// LoadPlaybook reads a playbook from a YAML or JSON file, chosen by
// extension.
func LoadPlaybook(path string) (*model.Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playbook: %w", err)
	}
	var pb model.Playbook
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pb); err != nil {
			return nil, fmt.Errorf("parse playbook %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &pb); err != nil {
			return nil, fmt.Errorf("parse playbook %s: %w", path, err)
		}
	}
	return &pb, nil
}

// LoadContent reads the raw contract text. HTML files are reduced to their
// visible text; everything else is returned as-is.
func LoadContent(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ExtractText(string(data))
	default:
		return string(data), nil
	}
}

// ExtractText strips markup from HTML contract exports, keeping only the
// visible text with block elements separated by spaces.
func ExtractText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String(), nil
}
