package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"clob_go/internal/app"
	"clob_go/internal/domain"

	"github.com/shopspring/decimal"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults when empty)")
	token := flag.String("token", "", "token ID to quote")
	sideFlag := flag.String("side", "BUY", "BUY or SELL")
	amountFlag := flag.String("amount", "", "notional to fill (defaults to quote.default_amount)")
	poll := flag.Bool("poll", false, "keep polling configured tokens until interrupted")
	flag.Parse()

	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer bootstrap.Shutdown(context.Background())

	// 3. One-shot quote
	if *token != "" {
		if err := quote(ctx, bootstrap, *token, *sideFlag, *amountFlag); err != nil {
			slog.Error("Quote failed", slog.Any("error", err))
			stop()
			bootstrap.Shutdown(context.Background())
			os.Exit(1)
		}
	}

	// 4. Background polling
	if *poll {
		if err := bootstrap.Poller.Start(ctx); err != nil {
			slog.Error("Failed to start book poller", slog.Any("error", err))
			return
		}
		slog.InfoContext(ctx, "Book poller started", slog.Int("tokens", len(bootstrap.Config.Quote.Tokens)))
		<-ctx.Done()
		slog.Info("Shutting down")
	}
}

func quote(ctx context.Context, b *app.Bootstrap, token, sideStr, amountStr string) error {
	side, err := domain.ParseSide(sideStr)
	if err != nil {
		return err
	}

	amount := b.Config.Quote.DefaultAmount
	if amountStr != "" {
		amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", amountStr, err)
		}
	}

	q, err := b.Quotes.Quote(ctx, token, side, amount)
	if err != nil {
		if apiErr, ok := domain.AsAPIError(err); ok {
			return fmt.Errorf("exchange rejected request (status %d): %s", apiErr.Status, apiErr.Message)
		}
		return err
	}

	fmt.Printf("%s %s notional=%s price=%s book=%s\n", q.Side, q.TokenID, q.Amount, q.Price, q.BookHash)
	return nil
}
