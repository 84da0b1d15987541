package domain

type TraitType string

const (
	TraitRisk    TraitType = "risk"
	TraitInfo    TraitType = "info"
	TraitSuccess TraitType = "success"
)

type Trait struct {
	Label string    `json:"label"`
	Type  TraitType `json:"type"`
}

// ReputationRecord is a precomputed, read-only fact about a company or role,
// built offline from the labeled postings dataset and loaded once at startup.
// EffortCount is nil unless real effort data existed for the group; the
// offline dataset carries none, so the builder leaves it absent.
type ReputationRecord struct {
	Name           string `json:"name"`
	Score          int    `json:"score"`
	EffortCount    *int   `json:"effortCount,omitempty"`
	ResponseCount  int    `json:"responseCount"`
	Recommendation string `json:"recommendation"`
	DataSource     string `json:"dataSource"`
}

// ScoreRecord is the wire shape of a scoring answer. Exactly what the three
// internal branches (historic, live, insufficient data) flatten into.
type ScoreRecord struct {
	Score          int     `json:"score"`
	Name           string  `json:"name,omitempty"`
	EffortCount    *int    `json:"effortCount,omitempty"`
	ResponseCount  int     `json:"responseCount"`
	Recommendation string  `json:"recommendation"`
	Traits         []Trait `json:"traits"`
	IsHistoric     bool    `json:"isHistoric"`
	Method         string  `json:"method"`
	DataSource     string  `json:"dataSource,omitempty"`
}
