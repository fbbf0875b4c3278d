package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// BookPoller periodically quotes both sides of a fixed token set, which
// also snapshots their books when the QuoteService has a repository.
// A failed poll is logged; the next tick proceeds as usual.
type BookPoller struct {
	quotes       *QuoteService
	tokens       []string
	amount       decimal.Decimal
	pollInterval time.Duration
	logger       *slog.Logger
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewBookPoller creates a poller. pollIntervalSec <= 0 defaults to 30s.
func NewBookPoller(quotes *QuoteService, tokens []string, amount decimal.Decimal, pollIntervalSec int) *BookPoller {
	interval := 30 * time.Second
	if pollIntervalSec > 0 {
		interval = time.Duration(pollIntervalSec) * time.Second
	}
	return &BookPoller{
		quotes:       quotes,
		tokens:       tokens,
		amount:       amount,
		pollInterval: interval,
		logger:       slog.Default().With("module", "book_poller"),
	}
}

// Start polls once immediately, then on every interval until ctx is done
// or Stop is called.
func (p *BookPoller) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	p.pollOnce(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Book polling panic recovered", slog.Any("panic", r))
			}
		}()

		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("Book polling stopped")
				return
			case <-ticker.C:
				p.pollOnce(ctx)
			}
		}
	}()

	return nil
}

func (p *BookPoller) pollOnce(ctx context.Context) {
	for _, token := range p.tokens {
		if ctx.Err() != nil {
			return
		}
		if _, err := p.quotes.QuoteBothSides(ctx, token, p.amount); err != nil {
			p.logger.Warn("Book poll failed", slog.String("token", token), slog.Any("error", err))
		}
	}
}

// Stop stops the polling
func (p *BookPoller) Stop() {
	if p.cancel != nil {
		p.cancel()
		p.wg.Wait()
	}
}
