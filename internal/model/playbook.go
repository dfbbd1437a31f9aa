package model

// Playbook is the static review configuration for one contract type:
// which clause topics must exist and which phrases they must include.
// Supplied externally, read-only to the engine.
type Playbook struct {
	Name            string           `json:"name,omitempty" yaml:"name"`
	ContractType    string           `json:"contractType,omitempty" yaml:"contractType"`
	CriticalClauses []CriticalClause `json:"criticalClauses,omitempty" yaml:"criticalClauses"`
	ClauseAnchors   []string         `json:"clauseAnchors,omitempty" yaml:"clauseAnchors"`
}

// CriticalClause names one required clause topic and the phrases its clause
// text must cover for the requirement to count as satisfied.
type CriticalClause struct {
	Title       string   `json:"title" yaml:"title"`
	MustInclude []string `json:"mustInclude,omitempty" yaml:"mustInclude"`
	Optional    bool     `json:"optional,omitempty" yaml:"optional"`
}
