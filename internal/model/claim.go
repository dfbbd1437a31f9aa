package model

// Severity ranks how serious a flagged issue is
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Rank converts a severity into an ordinal, higher is more severe.
// Unknown severities rank below info so malformed drafts never win a
// deduplication contest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// ClauseReference ties a claim to a clause and a verbatim excerpt.
// Invariant: if Excerpt is not a recognized missing-evidence marker, it must
// be demonstrably present in the referenced clause or the raw content.
type ClauseReference struct {
	ClauseID     string `json:"clauseId,omitempty"`
	Heading      string `json:"heading,omitempty"`
	Excerpt      string `json:"excerpt,omitempty"`
	LocationHint string `json:"locationHint,omitempty"`
}

// Issue is a flagged problem in the draft analysis. The binder may rewrite
// its clause reference, excerpt, and rationale; everything else is owned by
// the upstream draft.
type Issue struct {
	ID              string           `json:"id,omitempty"`
	Title           string           `json:"title"`
	Severity        Severity         `json:"severity,omitempty"`
	Category        string           `json:"category,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Recommendation  string           `json:"recommendation,omitempty"`
	Rationale       string           `json:"rationale,omitempty"`
	ClauseReference *ClauseReference `json:"clauseReference,omitempty"`
}

// Criterion is a playbook requirement instance. Met is derived by the
// engine; the value supplied by the draft is never trusted.
type Criterion struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Met         bool     `json:"met"`
	Evidence    string   `json:"evidence,omitempty"`
	ClauseID    string   `json:"clauseId,omitempty"`
	Optional    bool     `json:"optional,omitempty"`
	MustInclude []string `json:"mustInclude,omitempty"`
}

// EditIntent says whether a proposed edit inserts new text or replaces
// existing text.
type EditIntent string

const (
	EditIntentInsert  EditIntent = "insert"
	EditIntentReplace EditIntent = "replace"
)

// ProposedEdit is a drafting suggestion tied to a clause.
type ProposedEdit struct {
	ID           string     `json:"id,omitempty"`
	ClauseID     string     `json:"clauseId,omitempty"`
	AnchorText   string     `json:"anchorText,omitempty"`
	Intent       EditIntent `json:"intent,omitempty"`
	ProposedText string     `json:"proposedText"`
	Rationale    string     `json:"rationale,omitempty"`
}
