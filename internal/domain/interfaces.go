package domain

import "context"

// BookFetcher fetches live order book snapshots
type BookFetcher interface {
	GetOrderBook(ctx context.Context, tokenID string) (*OrderBookSummary, error)
}

// SnapshotRepository persists fetched books and computed quotes
type SnapshotRepository interface {
	SaveBookSnapshot(tokenID string, book *OrderBookSummary) error
	SaveQuote(q Quote) error
}

// Poller is a background job with a start/stop lifecycle
type Poller interface {
	Start(ctx context.Context) error
	Stop()
}
