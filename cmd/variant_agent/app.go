package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/variant-studio/internal/config"
	"github.com/jonathan/variant-studio/internal/export"
	"github.com/jonathan/variant-studio/internal/generation"
	"github.com/jonathan/variant-studio/internal/knowledge"
	"github.com/jonathan/variant-studio/internal/llm"
	"github.com/jonathan/variant-studio/internal/metrics"
	"github.com/jonathan/variant-studio/internal/pipeline"
	"github.com/jonathan/variant-studio/internal/rewriting"
	"github.com/jonathan/variant-studio/internal/store"
)

// app holds the wired service and everything that must be released with it.
type app struct {
	service *pipeline.Service
	client  llm.Client
	logger  *zap.Logger
}

// appOptions selects how much of the stack is wired.
type appOptions struct {
	// persistent selects the PostgreSQL store when DATABASE_URL is set.
	persistent bool
	// export enables the CSV sink.
	export bool
}

// newApp wires a pipeline.Service from cfg. A missing API key is not an error:
// the service then runs on templates only. UseMock only affects generation.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts appOptions) (*app, error) {
	c, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load channel vocabulary: %w", err)
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey())
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Info("no model credentials, using templates only", zap.String("provider", string(cfg.Provider())))
		client = nil
	case err != nil:
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	var results store.ResultStore
	if opts.persistent && cfg.DatabaseURL != "" {
		pg, err := store.ConnectPostgres(ctx, cfg.DatabaseURL, cfg.StoreTTL)
		if err != nil {
			closeClient(client, logger)
			return nil, fmt.Errorf("failed to connect result store: %w", err)
		}
		results = pg
	} else {
		results = store.NewMemoryStore(cfg.StoreCapacity, cfg.StoreTTL)
	}

	var sink pipeline.Sink
	if opts.export {
		fileSink, err := export.NewFileSink(cfg.ExportDir)
		if err != nil {
			logger.Warn("csv export disabled", zap.Error(err))
		} else {
			sink = fileSink
		}
	}

	kb, err := knowledge.NewLoader(logger).Load(ctx, cfg.KBPath)
	if err != nil {
		logger.Warn("knowledge base unavailable", zap.String("source", cfg.KBPath), zap.Error(err))
	}

	diag := metrics.New()
	service, err := pipeline.New(pipeline.Options{
		Catalog:         c,
		Adapter:         generation.NewAdapter(client, c, diag, logger),
		Polisher:        rewriting.NewPolisher(client, c, diag, logger, rewriting.Options{Timeout: cfg.PolishTimeout}),
		Store:           results,
		Sink:            sink,
		Diagnostics:     diag,
		Logger:          logger,
		KnowledgeBase:   kb,
		UseMock:         cfg.UseMock,
		GenerateTimeout: cfg.GenerateTimeout,
		PublicBaseURL:   cfg.PublicBaseURL,
	})
	if err != nil {
		results.Close() //nolint:errcheck
		closeClient(client, logger)
		return nil, err
	}

	return &app{service: service, client: client, logger: logger}, nil
}

// Close releases the result store and the model client.
func (a *app) Close() {
	if err := a.service.Close(); err != nil {
		a.logger.Warn("failed to close result store", zap.Error(err))
	}
	closeClient(a.client, a.logger)
}

func closeClient(client llm.Client, logger *zap.Logger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Warn("failed to close llm client", zap.Error(err))
	}
}
