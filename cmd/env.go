package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/passivepilot/leadgen-cli/internal/analyzer"
	"github.com/passivepilot/leadgen-cli/internal/config"
	"github.com/passivepilot/leadgen-cli/internal/fetcher"
	"github.com/passivepilot/leadgen-cli/internal/geocode"
	"github.com/passivepilot/leadgen-cli/internal/ingest"
	"github.com/passivepilot/leadgen-cli/internal/provider"
	"github.com/passivepilot/leadgen-cli/internal/scoring"
	"github.com/passivepilot/leadgen-cli/internal/store"
)

// pipelineEnv wires the store, providers, and engines for a command run.
type pipelineEnv struct {
	Store    store.Store
	Registry *provider.Registry
	Ingest   *ingest.Engine
	Scoring  *scoring.Engine
	Analyzer *analyzer.Analyzer
	Geocoder *geocode.Geocoder
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	log := zap.L()
	client := fetcher.NewClient(fetcher.Options{
		UserAgent:     cfg.Fetch.UserAgent,
		Timeout:       time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries:    cfg.Fetch.MaxRetries,
		RatePerSec:    cfg.Fetch.RatePerSec,
		RateBurst:     cfg.Fetch.RateBurst,
		MaxResponseMB: int64(cfg.Fetch.MaxResponseMB),
	})

	registry := provider.NewRegistry()
	registry.Register(provider.NewAttom(cfg.Attom, client, log))
	registry.Register(provider.NewRepliers(cfg.Repliers, client, log))
	registry.Register(provider.NewDealMachine(cfg.DealMachine, log))

	if err := scoring.ValidateConfig(cfg.Scoring); err != nil {
		st.Close()
		return nil, err
	}

	return &pipelineEnv{
		Store:    st,
		Registry: registry,
		Ingest:   ingest.New(st, log),
		Scoring:  scoring.NewEngine(cfg.Scoring, log),
		Analyzer: analyzer.New(st),
		Geocoder: geocode.New(st, cfg.Geocode.Provider, log),
	}, nil
}

func (e *pipelineEnv) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}
