package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the taker direction of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) String() string {
	return string(s)
}

// ParseSide accepts "buy"/"sell" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// Headers are per-call request headers. They are applied on top of the
// transport defaults; a same-named entry replaces the default for that call.
type Headers map[string]string

// OrderSummary is one price level of an order book.
// Price and Size keep the exchange's decimal precision.
type OrderSummary struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// Notional returns Price * Size.
func (o OrderSummary) Notional() decimal.Decimal {
	return o.Size.Mul(o.Price)
}

// OrderBookSummary is a book snapshot as returned by GET /book.
// Bids and Asks are ordered best-to-worst by the exchange.
type OrderBookSummary struct {
	Market       string          `json:"market"`
	AssetID      string          `json:"asset_id"`
	Timestamp    string          `json:"timestamp"`
	Hash         string          `json:"hash"`
	Bids         []OrderSummary  `json:"bids"`
	Asks         []OrderSummary  `json:"asks"`
	MinOrderSize decimal.Decimal `json:"min_order_size"`
	TickSize     decimal.Decimal `json:"tick_size"`
	NegRisk      bool            `json:"neg_risk"`
}

// Levels returns the side of the book a taker on side consumes:
// asks for a buy, bids for a sell. The slice is returned as delivered.
func (b *OrderBookSummary) Levels(side Side) []OrderSummary {
	if side == SideSell {
		return b.Bids
	}
	return b.Asks
}

// Quote is the computed market-order price for an amount on one side.
type Quote struct {
	TokenID  string          `json:"token_id"`
	Side     Side            `json:"side"`
	Amount   decimal.Decimal `json:"amount"`
	Price    decimal.Decimal `json:"price"`
	BookHash string          `json:"book_hash"`
	QuotedAt time.Time       `json:"quoted_at"`
}

// BookParams selects one book in a POST /books batch.
type BookParams struct {
	TokenID string `json:"token_id"`
	Side    Side   `json:"side,omitempty"`
}

// OpenOrder is a resting order as returned by GET /data/orders.
type OpenOrder struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	Owner           string          `json:"owner"`
	MakerAddress    string          `json:"maker_address"`
	Market          string          `json:"market"`
	AssetID         string          `json:"asset_id"`
	Side            Side            `json:"side"`
	OriginalSize    decimal.Decimal `json:"original_size"`
	SizeMatched     decimal.Decimal `json:"size_matched"`
	Price           decimal.Decimal `json:"price"`
	Outcome         string          `json:"outcome"`
	OrderType       string          `json:"order_type"`
	Expiration      string          `json:"expiration"`
	AssociateTrades []string        `json:"associate_trades"`
	CreatedAt       int64           `json:"created_at"`
}

// OrdersPage is one cursor page of open orders.
type OrdersPage struct {
	Data       []OpenOrder `json:"data"`
	NextCursor string      `json:"next_cursor"`
	Limit      int         `json:"limit"`
	Count      int         `json:"count"`
}

// PostOrderRequest wraps an already-signed order for POST /order.
// The order payload is passed through untouched.
type PostOrderRequest struct {
	Order     json.RawMessage `json:"order"`
	Owner     string          `json:"owner"`
	OrderType string          `json:"orderType"`
}

// PostOrderResponse is the exchange's answer to POST /order.
type PostOrderResponse struct {
	Success            bool     `json:"success"`
	ErrorMsg           string   `json:"errorMsg"`
	OrderID            string   `json:"orderID"`
	TransactionsHashes []string `json:"transactionsHashes"`
	Status             string   `json:"status"`
	TakingAmount       string   `json:"takingAmount"`
	MakingAmount       string   `json:"makingAmount"`
}

// CancelResponse lists cancelled order IDs and the reasons others were not.
type CancelResponse struct {
	Canceled    []string          `json:"canceled"`
	NotCanceled map[string]string `json:"not_canceled"`
}
