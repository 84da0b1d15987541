package httpapi

import (
	"net/http"
	"strings"

	"energysink-engine/internal/identity"
	"energysink-engine/internal/score"
)

type ScoresHandler struct {
	Scores *score.Engine
}

// Get resolves a score. Well-formed-but-unmatched queries are not errors:
// the engine falls through to live signals and finally the zero-score
// sentinel, so this always answers 200.
func (h ScoresHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	company := q.Get("company")
	position := q.Get("position")
	jobID := q.Get("jobId")

	id := identity.Natural(company, position)
	if jobID != "" {
		fp := jobID
		if strings.Contains(fp, "://") {
			fp = identity.Fingerprint(fp)
		}
		id.Fingerprint = fp
	}

	rec := h.Scores.Score(id, company, position)
	writeJSON(w, rec)
}
