package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"energysink-engine/internal/match"
)

type MatchHandler struct {
	Matcher *match.Engine
}

type matchReq struct {
	Skills []string `json:"skills"`
}

func (h MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req matchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}

	res, err := h.Matcher.Match(req.Skills)
	if err != nil {
		if errors.Is(err, match.ErrNoSkills) {
			WriteError(w, r, http.StatusBadRequest, "skills_required", "skills must be a non-empty array")
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "match_failed", err.Error())
		return
	}
	writeJSON(w, res)
}
