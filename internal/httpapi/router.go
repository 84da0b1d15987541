package httpapi

import "net/http"

// NewMux returns the raw mux so main() can wrap it in the middleware chain.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Signal ingestion + scoring
	sig := SignalsHandler{Signals: d.Signals, Hub: d.Hub}
	mux.HandleFunc("/api/signals", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sig.Record,
	}))

	sc := ScoresHandler{Scores: d.Scores}
	mux.HandleFunc("/api/scores", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sc.Get,
	}))

	// Recommendations
	mh := MatchHandler{Matcher: d.Matcher}
	mux.HandleFunc("/api/match", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: mh.Match,
	}))

	// Posting analysis (score + optional authenticity classifier)
	ah := AnalyzeHandler{Scores: d.Scores, Classifier: d.Classifier}
	mux.HandleFunc("/api/analyze", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Analyze,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/imap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetIMAPPassword,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	hh := HealthHandler{Scores: d.Scores}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
