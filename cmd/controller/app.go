package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/config"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/gate"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/integrity"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/invoker"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/logging"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/pipeline"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/rank"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/resolver"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/session"
)

// #region app
// app holds the wired controller and everything that must be closed.
type app struct {
	cfg      config.Config
	store    *session.SQLiteStore
	log      *logging.DecisionLog
	pipeline *pipeline.Pipeline
	closers  []func() error
}

// loadConfig reads the config file and initializes logging from it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	return cfg, nil
}

// openStore opens the SQLite session store and its decision log.
func openStore(cfg config.Config) (*session.SQLiteStore, *logging.DecisionLog, error) {
	store, err := session.NewSQLiteStore(cfg.DBPath, cfg.HistoryLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return store, logging.NewDecisionLog(store.DB()), nil
}

// newInvoker builds the invoker selected by cfg.Invoker.Kind.
func newInvoker(cfg config.Config) (invoker.Invoker, func() error, error) {
	switch cfg.Invoker.Kind {
	case "grpc":
		g, err := invoker.NewGRPC(cfg.Invoker.Addr, cfg.InvokerTimeout())
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	case "openai", "":
		return invoker.NewOpenAI(invoker.OpenAIConfig{
			APIKey:  cfg.Invoker.APIKey,
			BaseURL: cfg.Invoker.BaseURL,
			Timeout: cfg.InvokerTimeout(),
		}), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown invoker kind %q", config.ErrInvalid, cfg.Invoker.Kind)
	}
}

// newApp wires config, storage, invoker and the pipeline. Metrics register
// on reg; nil skips metrics.
func newApp(reg prometheus.Registerer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, decisions, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	inv, closeInv, err := newInvoker(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	var metrics *pipeline.Metrics
	if reg != nil {
		metrics = pipeline.NewMetrics(reg)
	}

	p := pipeline.New(pipeline.Options{
		Backends:          cfg.Backends,
		DefaultBackend:    cfg.DefaultBackend,
		FallbackMaxTokens: cfg.FallbackMaxTokens,
		SystemPrompt:      cfg.SystemPrompt,
		Invoker:           inv,
		Scheduler:         cfg.NewScheduler(),
		Sessions:          store,
		Scorer:            integrity.NewScorer(cfg.IntegrityWeights),
		Ranker:            rank.New(cfg.Designations(), nil),
		Gate:              gate.NewGate(cfg.GateConfig(), resolver.New()),
		Decisions:         decisions,
		Metrics:           metrics,
	})

	return &app{
		cfg:      cfg,
		store:    store,
		log:      decisions,
		pipeline: p,
		closers:  []func() error{closeInv, store.Close},
	}, nil
}

// Close releases the invoker and the store.
func (a *app) Close() {
	for _, c := range a.closers {
		c()
	}
}

// #endregion app
