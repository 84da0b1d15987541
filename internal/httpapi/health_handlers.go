package httpapi

import (
	"encoding/json"
	"net/http"

	"energysink-engine/internal/score"
)

type HealthHandler struct {
	Scores *score.Engine
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	records := 0
	if h.Scores != nil && h.Scores.Table != nil {
		records = h.Scores.Table.Len()
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":                 true,
		"reputation_records": records,
		// degraded means every lookup misses and live signals carry scoring
		"degraded": records == 0,
	})
}
