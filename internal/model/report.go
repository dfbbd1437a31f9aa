package model

// AnalysisReport is the draft analysis produced by the upstream AI reviewer
// and corrected in place by one pass of the binder. The shape is plain JSON;
// unknown metadata keys ride along untouched.
type AnalysisReport struct {
	GeneralInformation map[string]any `json:"generalInformation,omitempty"`
	ContractSummary    string         `json:"contractSummary,omitempty"`
	IssuesToAddress    []Issue        `json:"issuesToAddress"`
	CriteriaMet        []Criterion    `json:"criteriaMet"`
	ProposedEdits      []ProposedEdit `json:"proposedEdits,omitempty"`
	PlaybookInsights   []Insight      `json:"playbookInsights,omitempty"`
	DeviationInsights  []Insight      `json:"deviationInsights,omitempty"`
	ClauseExtractions  []Clause       `json:"clauseExtractions,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// Insight is a free-form observation from the draft, optionally pinned to a
// clause. The binder only validates the clause pin.
type Insight struct {
	Topic    string `json:"topic,omitempty"`
	Summary  string `json:"summary,omitempty"`
	ClauseID string `json:"clauseId,omitempty"`
}

// MatchMethod names how a clause match was established.
type MatchMethod string

const (
	MatchByID      MatchMethod = "id"
	MatchByHeading MatchMethod = "heading"
	MatchByText    MatchMethod = "text"
	MatchByNGram   MatchMethod = "ngram"
	MatchNone      MatchMethod = "none"
)

// Candidate is one scored clause considered during matching.
type Candidate struct {
	Clause *Clause `json:"-"`
	Key    string  `json:"clauseId"`
	Title  string  `json:"title,omitempty"`
	Score  float64 `json:"score"`
	Source string  `json:"source"` // "heading" or "text"
}

// MatchResult is the outcome of resolving a clause reference. A nil Match
// with MatchNone is a normal, representable outcome, never an error.
type MatchResult struct {
	Match      *Clause     `json:"-"`
	Confidence float64     `json:"confidence"`
	Method     MatchMethod `json:"method"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// GroundingSummary counts what one binder pass changed.
type GroundingSummary struct {
	IssuesBound       int `json:"issuesBound"`
	IssuesRebound     int `json:"issuesRebound"`
	IssuesCleared     int `json:"issuesCleared"`
	IssuesDropped     int `json:"issuesDropped"`
	IssuesSynthesized int `json:"issuesSynthesized"`
	CriteriaMet       int `json:"criteriaMet"`
	CriteriaUnmet     int `json:"criteriaUnmet"`
	EditsDropped      int `json:"editsDropped"`
	ExcerptsRewritten int `json:"excerptsRewritten"`
}
