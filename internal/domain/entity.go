package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookSnapshot is a persisted order book snapshot
type BookSnapshot struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TokenID   string         `gorm:"index" json:"token_id"`
	Market    string         `json:"market"`
	Hash      string         `json:"hash"`
	Timestamp string         `json:"timestamp"` // Exchange timestamp (ms, as sent)
	Bids      []OrderSummary `gorm:"serializer:json" json:"bids"`
	Asks      []OrderSummary `gorm:"serializer:json" json:"asks"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

// NewBookSnapshot converts the book fetched for tokenID into a storable
// snapshot. The row is keyed by the requested token, not the echoed asset_id.
func NewBookSnapshot(tokenID string, book *OrderBookSummary) *BookSnapshot {
	return &BookSnapshot{
		TokenID:   tokenID,
		Market:    book.Market,
		Hash:      book.Hash,
		Timestamp: book.Timestamp,
		Bids:      book.Bids,
		Asks:      book.Asks,
	}
}

// QuoteRecord is a persisted market-order quote
type QuoteRecord struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	TokenID   string          `gorm:"index" json:"token_id"`
	Side      string          `json:"side"`
	Amount    decimal.Decimal `gorm:"type:text" json:"amount"`
	Price     decimal.Decimal `gorm:"type:text" json:"price"`
	BookHash  string          `json:"book_hash"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}

// NewQuoteRecord converts a quote into a storable record
func NewQuoteRecord(q Quote) *QuoteRecord {
	return &QuoteRecord{
		TokenID:   q.TokenID,
		Side:      q.Side.String(),
		Amount:    q.Amount,
		Price:     q.Price,
		BookHash:  q.BookHash,
		CreatedAt: q.QuotedAt,
	}
}
