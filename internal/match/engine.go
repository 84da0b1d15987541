// Package match ranks role/company recommendations for a set of detected
// skills against the reputation table.
package match

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"energysink-engine/internal/identity"
	"energysink-engine/internal/reputation"
)

var ErrNoSkills = errors.New("no skills detected")

const (
	skillBonus = 15
	jitterSpan = 20
	scoreFloor = 40
	scoreCeil  = 98
	maxResults = 3
)

// SkillMap maps a lower-cased skill token to candidate role/company keys in
// reputation-table form.
type SkillMap map[string][]string

// DefaultSkillMap is the built-in candidate list; config may replace it.
func DefaultSkillMap() SkillMap {
	return SkillMap{
		"javascript": {"frontend engineer", "fullstack developer", "meta", "google"},
		"node.js":    {"backend engineer", "system architect", "amazon"},
		"react":      {"frontend engineer", "ui developer", "meta"},
		"python":     {"data scientist", "machine learning engineer", "google", "accenture"},
		"java":       {"backend developer", "infosys", "accenture"},
		"sales":      {"sales executive", "target", "bj's wholesale"},
	}
}

type Recommendation struct {
	Company         string `json:"company"`
	Position        string `json:"position"`
	ReputationScore int    `json:"reputationScore"`
	MatchStrength   string `json:"matchStrength"`
}

type Result struct {
	ATSScore        int              `json:"atsScore"`
	Recommendations []Recommendation `json:"recommendations"`
	Analysis        string           `json:"analysis"`
}

type Engine struct {
	Table  *reputation.Table
	Skills SkillMap

	// jitter returns a value in [0, span). Swappable in tests; nil uses
	// math/rand. The jitter is presentation noise, not a scoring contract.
	Jitter func(span int) int
}

// Match resolves skills to at most three deduplicated recommendations plus a
// headline score. The empty-skills case is the one validation error the
// external surface has.
func (e *Engine) Match(skills []string) (Result, error) {
	if len(skills) == 0 {
		return Result{}, ErrNoSkills
	}

	table := e.Table
	if table == nil {
		table = reputation.Empty()
	}

	base := 0
	var recs []Recommendation
	seen := map[Recommendation]bool{}

	for _, skill := range skills {
		candidates, ok := e.skillMap()[identity.NormalizeKey(skill)]
		if !ok {
			continue
		}
		base += skillBonus

		for _, cand := range candidates {
			rep, ok := table.Lookup(cand)
			if !ok {
				continue
			}

			company := rep.Name
			if company == "" {
				company = cand
			}
			position := "Specialist"
			if strings.Contains(cand, "engineer") {
				position = cand
			}

			rec := Recommendation{
				Company:         company,
				Position:        position,
				ReputationScore: rep.Score,
				MatchStrength:   "High",
			}
			// dedup by exact tuple, first occurrence wins
			key := Recommendation{Company: rec.Company, Position: rec.Position, ReputationScore: rec.ReputationScore}
			if seen[key] {
				continue
			}
			seen[key] = true
			recs = append(recs, rec)
		}
	}

	if len(recs) > maxResults {
		recs = recs[:maxResults]
	}
	if recs == nil {
		recs = []Recommendation{}
	}

	return Result{
		ATSScore:        clamp(base+e.jitter(jitterSpan), scoreFloor, scoreCeil),
		Recommendations: recs,
		Analysis: fmt.Sprintf(
			"We found %d core competencies. Based on historic posting data and company behavioral signals, these roles offer the best match for your profile.",
			len(skills),
		),
	}, nil
}

func (e *Engine) skillMap() SkillMap {
	if e.Skills != nil {
		return e.Skills
	}
	return DefaultSkillMap()
}

func (e *Engine) jitter(span int) int {
	if e.Jitter != nil {
		return e.Jitter(span)
	}
	return rand.Intn(span)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
