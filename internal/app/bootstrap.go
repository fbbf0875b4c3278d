package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clob_go/internal/clob"
	"clob_go/internal/infra"
	"clob_go/internal/infra/rest"
	"clob_go/internal/infra/storage"
	"clob_go/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage // nil when storage is disabled
	Client  *clob.Client
	Quotes  *service.QuoteService
	Poller  *service.BookPoller
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config from path and wires logger, storage, transport
// and services. An empty path runs on defaults.
func (b *Bootstrap) Initialize(path string) error {
	// 1. Load Config
	if err := infra.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg := infra.DefaultConfig()
	if path != "" {
		loaded, err := infra.LoadConfig(path)
		if err != nil {
			return err // Let main handle the error
		}
		cfg = loaded
	} else {
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	b.Config = cfg

	// 2. Setup Logger
	slog.SetDefault(infra.NewLogger(cfg))
	slog.Info("Bootstrapping", slog.String("app", cfg.App.Name), slog.String("clob", cfg.API.Clob.RestURL))

	// 3. Initialize Storage (DB)
	var repo *storage.Storage
	if cfg.Storage.Enabled {
		store, err := storage.NewStorage(cfg.Storage.Path)
		if err != nil {
			return err
		}
		repo = store
		b.Storage = store
		slog.Info("Database initialized")
	}

	// 4. Transport + API client
	timeout := time.Duration(cfg.API.Clob.TimeoutMS) * time.Millisecond
	clobTransport := rest.NewClient(cfg.API.Clob.RestURL,
		rest.WithUserAgent(cfg.API.Clob.UserAgent),
		rest.WithTimeout(timeout),
	)
	dataTransport := rest.NewClient(cfg.API.Data.RestURL,
		rest.WithUserAgent(cfg.API.Clob.UserAgent),
		rest.WithTimeout(timeout),
	)
	b.Client = clob.NewClient(clobTransport, dataTransport)

	// 5. Services
	if repo != nil {
		b.Quotes = service.NewQuoteService(b.Client, repo, infra.GlobalMetrics)
	} else {
		b.Quotes = service.NewQuoteService(b.Client, nil, infra.GlobalMetrics)
	}
	b.Poller = service.NewBookPoller(b.Quotes, cfg.Quote.Tokens, cfg.Quote.DefaultAmount, cfg.Quote.PollIntervalSec)

	return nil
}

// Shutdown releases resources acquired by Initialize
func (b *Bootstrap) Shutdown(ctx context.Context) {
	if b.Poller != nil {
		b.Poller.Stop()
	}
	if b.Storage != nil {
		if err := b.Storage.Close(); err != nil {
			slog.ErrorContext(ctx, "Failed to close database", slog.Any("error", err))
		}
	}
	snap := infra.GlobalMetrics.Snapshot()
	slog.InfoContext(ctx, "Shutdown complete",
		slog.Uint64("requests", snap.RequestsTotal),
		slog.Uint64("api_errors", snap.APIErrors),
		slog.Uint64("transport_errors", snap.TransportErrors),
		slog.Uint64("quotes", snap.QuotesComputed),
	)
}
