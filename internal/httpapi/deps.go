package httpapi

import (
	"sync/atomic"

	"go.uber.org/zap"

	"energysink-engine/internal/classify"
	"energysink-engine/internal/config"
	"energysink-engine/internal/events"
	"energysink-engine/internal/match"
	"energysink-engine/internal/score"
	"energysink-engine/internal/signal"
)

type Deps struct {
	Signals *signal.Store
	Scores  *score.Engine
	Matcher *match.Engine

	// Classifier is optional; nil means /api/analyze answers without
	// authenticity enrichment.
	Classifier *classify.Client

	Hub *events.Hub

	// Atomic store, holds config.Config
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Log *zap.SugaredLogger
}
