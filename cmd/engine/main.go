package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	ossignal "os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"energysink-engine/internal/classify"
	"energysink-engine/internal/config"
	"energysink-engine/internal/domain"
	"energysink-engine/internal/events"
	"energysink-engine/internal/httpapi"
	"energysink-engine/internal/logger"
	"energysink-engine/internal/match"
	"energysink-engine/internal/reputation"
	"energysink-engine/internal/respwatch"
	"energysink-engine/internal/scheduler"
	"energysink-engine/internal/score"
	"energysink-engine/internal/secrets"
	"energysink-engine/internal/signal"
	"energysink-engine/internal/store"
)

const pruneInterval = 6 * time.Hour

func main() {
	if len(os.Args) > 1 && os.Args[1] == "build-reputation" {
		if err := runBuildReputation(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "build-reputation:", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Engine data dir: use env if provided (the extension host can pass
	// one), else local folder.
	dataDir := os.Getenv("ENERGYSINK_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap failed: %w", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		c, err := config.Load(userCfgPath)
		if err != nil {
			return config.Config{}, err
		}
		normalized, vr := config.NormalizeAndValidate(c)
		if !vr.OK() {
			return config.Config{}, fmt.Errorf("config invalid: %v", vr.Errors)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath := filepath.Join(dataDir, "energysink.db")
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	signals := signal.NewStore(signal.Options{
		MaxPerIdentity: cfg.Signals.MaxPerIdentity,
		MaxAge:         time.Duration(cfg.Signals.MaxAgeDays) * 24 * time.Hour,
	}, &store.SignalJournal{DB: db.Pool})

	replayed := 0
	err = store.ReplaySignals(ctx, db.Pool, func(bucketKey string, sig domain.EffortSignal) error {
		signals.Restore(bucketKey, sig)
		replayed++
		return nil
	})
	if err != nil {
		return fmt.Errorf("replay signals: %w", err)
	}
	log.Infow("signal journal replayed", logger.FieldCount, replayed)

	table := loadReputation(cfg, dataDir, log)

	scores := &score.Engine{
		Table:     table,
		Signals:   signals,
		RiskTerms: riskTerms(cfg),
	}
	matcher := &match.Engine{
		Table:  table,
		Skills: match.SkillMap(cfg.Match.Skills),
	}

	var classifier *classify.Client
	if cfg.Classifier.Enabled {
		classifier = classify.NewClient(
			cfg.Classifier.URL,
			time.Duration(cfg.Classifier.TimeoutMS)*time.Millisecond,
			cfg.Classifier.RatePerSec,
			log,
		)
	}

	hub := events.NewHub()
	hub.Publish(events.MakeEvent("", events.TypeReputationLoaded, map[string]any{
		"records": table.Len(),
	}))

	mux := httpapi.NewMux(httpapi.Deps{
		Signals:     signals,
		Scores:      scores,
		Matcher:     matcher,
		Classifier:  classifier,
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Log:         log,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.Recover(log),
			httpapi.AccessLog(log),
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Shutdown endpoint for the extension host; token lives next to the db.
	token, err := randomToken(16)
	if err != nil {
		return err
	}
	tokenPath := filepath.Join(dataDir, "engine.shutdown_token")
	if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
		return err
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	// Background loops
	if cfg.Email.Enabled {
		watcher := &respwatch.Watcher{Signals: signals, Hub: hub, Log: log}
		interval := time.Duration(cfg.Email.PollSeconds) * time.Second
		go scheduler.Every(ctx, interval, "respwatch", log, func(ctx context.Context) error {
			cur := cfgVal.Load().(config.Config)
			if !cur.Email.Enabled {
				return nil
			}
			account := secrets.IMAPKeyringAccount(cur.Email.Username, cur.Email.IMAPHost)
			pw, err := secrets.GetIMAPPassword(account)
			if err != nil {
				return err
			}
			n, err := watcher.RunOnce(ctx, cur, pw)
			if n > 0 {
				log.Infow("responses observed", logger.FieldCount, n)
			}
			return err
		})
	}
	go scheduler.Every(ctx, pruneInterval, "signal-prune", log, func(ctx context.Context) error {
		cur := cfgVal.Load().(config.Config)
		maxAge := time.Duration(cur.Signals.MaxAgeDays) * 24 * time.Hour
		deleted, err := store.PruneSignals(db.Pool, maxAge)
		if deleted > 0 {
			log.Infow("journal pruned", logger.FieldCount, deleted)
		}
		return err
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Infow("engine listening", "addr", "http://"+addr, "db", dbPath)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// loadReputation loads the snapshot the offline builder wrote. A missing or
// corrupt snapshot degrades to an empty table instead of failing startup:
// every lookup misses and live signals carry the scoring.
func loadReputation(cfg config.Config, dataDir string, log *zap.SugaredLogger) *reputation.Table {
	path := cfg.Reputation.SnapshotPath
	if path == "" {
		path = filepath.Join(dataDir, "reputation.json")
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(dataDir, path)
	}

	table, err := reputation.LoadSnapshot(path)
	if err != nil {
		log.Warnw("reputation snapshot unavailable, running degraded",
			"path", path, logger.FieldError, err)
		return reputation.Empty()
	}
	log.Infow("reputation snapshot loaded", "path", path, logger.FieldCount, table.Len())
	return table
}

func riskTerms(cfg config.Config) []string {
	if len(cfg.Scoring.RiskTerms) > 0 {
		return cfg.Scoring.RiskTerms
	}
	return score.DefaultRiskTerms
}
