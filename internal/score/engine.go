// Package score is the decision core: it reconciles reputation-table lookups
// with live signal aggregates and always produces an answer. Lookup misses
// are not errors and malformed inputs degrade to empty keys, so callers never
// need an error branch.
package score

import (
	"math"

	"energysink-engine/internal/domain"
	"energysink-engine/internal/identity"
	"energysink-engine/internal/reputation"
	"energysink-engine/internal/signal"
)

// The 30/60 band edges are the single most important tunables in the system.
// Defined here, used everywhere.
const (
	ThresholdCaution = 30
	ThresholdHigh    = 60
)

const (
	MethodHistoric     = "reputation_table"
	MethodLive         = "live_signals"
	MethodInsufficient = "insufficient_data"
)

// SignalReader is the slice of the signal store the engine needs.
type SignalReader interface {
	Aggregate(id domain.JobIdentity) signal.Aggregate
}

type Engine struct {
	Table   *reputation.Table
	Signals SignalReader

	// RiskTerms is the denylist of historically fraud-correlated position
	// substrings. Matched against the normalized position key.
	RiskTerms []string
}

// Result is the tagged outcome of a resolution: exactly one of
// HistoricScore, LiveScore, or InsufficientData. Record flattens it to the
// wire shape at the boundary.
type Result interface {
	Record() domain.ScoreRecord
}

type HistoricScore struct {
	Rep    domain.ReputationRecord
	Traits []domain.Trait
}

func (h HistoricScore) Record() domain.ScoreRecord {
	return domain.ScoreRecord{
		Score:          h.Rep.Score,
		Name:           h.Rep.Name,
		EffortCount:    h.Rep.EffortCount,
		ResponseCount:  h.Rep.ResponseCount,
		Recommendation: h.Rep.Recommendation,
		Traits:         h.Traits,
		IsHistoric:     true,
		Method:         MethodHistoric,
		DataSource:     h.Rep.DataSource,
	}
}

type LiveScore struct {
	Score       int
	TotalEffort int
	Responses   int
	Traits      []domain.Trait
}

func (l LiveScore) Record() domain.ScoreRecord {
	effort := l.TotalEffort
	return domain.ScoreRecord{
		Score:          l.Score,
		EffortCount:    &effort,
		ResponseCount:  l.Responses,
		Recommendation: recommendationFor(l.Score),
		Traits:         l.Traits,
		Method:         MethodLive,
	}
}

type InsufficientData struct{}

func (InsufficientData) Record() domain.ScoreRecord {
	zero := 0
	return domain.ScoreRecord{
		Score:          0,
		EffortCount:    &zero,
		ResponseCount:  0,
		Recommendation: "Insufficient Data",
		Traits:         []domain.Trait{{Label: "Fresh Listing", Type: domain.TraitInfo}},
		Method:         MethodInsufficient,
	}
}

// Score resolves a request to a wire record. id may carry a fingerprint for
// opaque-key signal lookups; company/position are the raw caller inputs.
func (e *Engine) Score(id domain.JobIdentity, company, position string) domain.ScoreRecord {
	return e.Resolve(id, company, position).Record()
}

// Resolve applies the resolution order: historic company key, historic
// position key, live aggregate, insufficient-data sentinel.
func (e *Engine) Resolve(id domain.JobIdentity, company, position string) Result {
	compKey := identity.NormalizeKey(company)
	posKey := identity.NormalizeKey(position)

	risk := e.riskTraits(posKey)

	// Company reputation is considered more stable than a role label, so the
	// company key wins when both exist.
	if rep, ok := e.lookup(compKey); ok {
		return HistoricScore{Rep: rep, Traits: historicTraits(risk, rep.Score)}
	}
	if rep, ok := e.lookup(posKey); ok {
		return HistoricScore{Rep: rep, Traits: historicTraits(risk, rep.Score)}
	}

	if id.IsZero() {
		id = identity.Natural(company, position)
	}
	agg := e.aggregate(id)
	if agg.TotalEffort == 0 && agg.ResponseCount == 0 {
		return InsufficientData{}
	}

	sc := liveScore(agg)
	return LiveScore{
		Score:       sc,
		TotalEffort: agg.EffortInt(),
		Responses:   agg.ResponseCount,
		Traits:      append(risk, framingTrait(sc)),
	}
}

func (e *Engine) lookup(key string) (domain.ReputationRecord, bool) {
	if e.Table == nil || key == "" {
		return domain.ReputationRecord{}, false
	}
	return e.Table.Lookup(key)
}

func (e *Engine) aggregate(id domain.JobIdentity) signal.Aggregate {
	if e.Signals == nil {
		return signal.Aggregate{}
	}
	return e.Signals.Aggregate(id)
}

// liveScore is the canonical formula: effort / (responses+1)^1.5, doubled and
// saturated at 100. The +1 avoids dividing by zero, and the exponent makes a
// single confirmed response count for far more than none.
func liveScore(agg signal.Aggregate) int {
	raw := agg.TotalEffort / math.Pow(float64(agg.ResponseCount)+1, 1.5)
	return int(math.Round(math.Min(100, raw*2)))
}

func recommendationFor(score int) string {
	switch {
	case score > ThresholdHigh:
		return "Avoid (High Energy Sink)"
	case score > ThresholdCaution:
		return "Proceed with Caution"
	default:
		return "Apply with Confidence"
	}
}
