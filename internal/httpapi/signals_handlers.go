package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"energysink-engine/internal/domain"
	"energysink-engine/internal/events"
	"energysink-engine/internal/identity"
	"energysink-engine/internal/signal"
)

type SignalsHandler struct {
	Signals *signal.Store
	Hub     *events.Hub
}

type recordSignalReq struct {
	Company   string            `json:"company"`
	Position  string            `json:"position"`
	JobID     string            `json:"jobId"`
	Kind      string            `json:"kind"`
	Value     float64           `json:"value"`
	Metadata  map[string]string `json:"metadata"`
	Timestamp time.Time         `json:"timestamp"`
}

// identityFrom builds the bucket identity for a request. jobId takes
// precedence; a raw posting URL is fingerprinted server-side so callers
// that cannot hash still get stable buckets.
func identityFrom(req recordSignalReq) domain.JobIdentity {
	if req.JobID != "" {
		fp := req.JobID
		if strings.Contains(fp, "://") {
			fp = identity.Fingerprint(fp)
		}
		id := identity.Opaque(fp)
		id.CompanyKey = identity.NormalizeKey(req.Company)
		id.PositionKey = identity.NormalizeKey(req.Position)
		return id
	}
	return identity.Natural(req.Company, req.Position)
}

func (h SignalsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordSignalReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Kind) == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_kind", "kind is required")
		return
	}

	id := identityFrom(req)
	if id.IsZero() {
		WriteError(w, r, http.StatusBadRequest, "missing_identity", "company, position, or jobId is required")
		return
	}

	at := req.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	sig := domain.EffortSignal{
		Kind:     domain.SignalKind(req.Kind),
		Value:    req.Value,
		At:       at,
		Metadata: req.Metadata,
	}
	if err := h.Signals.Record(id, sig); err != nil {
		if errors.Is(err, signal.ErrNegativeValue) {
			WriteError(w, r, http.StatusBadRequest, "negative_value", err.Error())
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "record_failed", err.Error())
		return
	}

	if h.Hub != nil {
		typ := events.TypeSignalRecorded
		if sig.Kind.IsResponse() {
			typ = events.TypeResponseObserved
		}
		h.Hub.Publish(events.MakeEvent(RequestIDFrom(r.Context()), typ, map[string]any{
			"bucket": id.BucketKey(),
			"kind":   req.Kind,
		}))
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}
