package httpapi

import (
	"encoding/json"
	"net/http"

	"energysink-engine/internal/classify"
	"energysink-engine/internal/identity"
	"energysink-engine/internal/score"
)

type AnalyzeHandler struct {
	Scores     *score.Engine
	Classifier *classify.Client
}

type analyzeReq struct {
	Company  string `json:"company"`
	Position string `json:"position"`
	JobURL   string `json:"jobUrl"`
	Title    string `json:"title"`
	HTML     string `json:"html"`
	Text     string `json:"text"`
}

type analyzeResp struct {
	Score               any      `json:"score"`
	ClassifierAvailable bool     `json:"classifierAvailable"`
	Authenticity        *float64 `json:"authenticity,omitempty"`
	GhostLikelihood     *float64 `json:"ghostLikelihood,omitempty"`
}

// Analyze scores a posting and, when the outbound classifier is configured
// and reachable, enriches the answer with an authenticity estimate. The
// classifier is a soft signal: any failure leaves the score untouched.
func (h AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}

	id := identity.Natural(req.Company, req.Position)
	if req.JobURL != "" {
		id.Fingerprint = identity.Fingerprint(req.JobURL)
	}

	resp := analyzeResp{
		Score: h.Scores.Score(id, req.Company, req.Position),
	}

	text := req.Text
	if text == "" && req.HTML != "" {
		text = classify.HTMLToText(req.HTML)
	}
	if a, ok := h.Classifier.Assess(r.Context(), req.Title, text); ok {
		resp.ClassifierAvailable = true
		resp.Authenticity = &a.Authenticity
		resp.GhostLikelihood = &a.GhostLikelihood
	}
	writeJSON(w, resp)
}
