package domain

import "github.com/shopspring/decimal"

// Token is one outcome token of a market.
type Token struct {
	TokenID string          `json:"token_id"`
	Outcome string          `json:"outcome"`
	Price   decimal.Decimal `json:"price"`
	Winner  bool            `json:"winner"`
}

// Market is a CLOB market.
type Market struct {
	ConditionID      string          `json:"condition_id"`
	QuestionID       string          `json:"question_id"`
	Question         string          `json:"question"`
	MarketSlug       string          `json:"market_slug"`
	Active           bool            `json:"active"`
	Closed           bool            `json:"closed"`
	AcceptingOrders  bool            `json:"accepting_orders"`
	NegRisk          bool            `json:"neg_risk"`
	MinimumOrderSize decimal.Decimal `json:"minimum_order_size"`
	MinimumTickSize  decimal.Decimal `json:"minimum_tick_size"`
	Tokens           []Token         `json:"tokens"`
}

// MarketsPage is one cursor page of markets.
type MarketsPage struct {
	Data       []Market `json:"data"`
	NextCursor string   `json:"next_cursor"`
	Limit      int      `json:"limit"`
	Count      int      `json:"count"`
}

// Midpoint is the response of GET /midpoint.
type Midpoint struct {
	Mid decimal.Decimal `json:"mid"`
}

// Price is the response of GET /price.
type Price struct {
	Price decimal.Decimal `json:"price"`
}

// Spread is the response of GET /spread.
type Spread struct {
	Spread decimal.Decimal `json:"spread"`
}

// TickSize is the response of GET /tick-size.
type TickSize struct {
	MinimumTickSize decimal.Decimal `json:"minimum_tick_size"`
}

// NegRisk is the response of GET /neg-risk.
type NegRisk struct {
	NegRisk bool `json:"neg_risk"`
}

// LastTradePrice is the response of GET /last-trade-price.
type LastTradePrice struct {
	Price decimal.Decimal `json:"price"`
	Side  Side            `json:"side"`
}

// Trade is a fill as reported by the data API.
type Trade struct {
	ProxyWallet     string          `json:"proxyWallet"`
	Side            Side            `json:"side"`
	Asset           string          `json:"asset"`
	ConditionID     string          `json:"conditionId"`
	Size            decimal.Decimal `json:"size"`
	Price           decimal.Decimal `json:"price"`
	Timestamp       int64           `json:"timestamp"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Outcome         string          `json:"outcome"`
	OutcomeIndex    int             `json:"outcomeIndex"`
	TransactionHash string          `json:"transactionHash"`
}

// Activity is one on-chain user activity entry from the data API.
type Activity struct {
	ProxyWallet     string          `json:"proxyWallet"`
	Timestamp       int64           `json:"timestamp"`
	ConditionID     string          `json:"conditionId"`
	Type            string          `json:"type"`
	Size            decimal.Decimal `json:"size"`
	UsdcSize        decimal.Decimal `json:"usdcSize"`
	TransactionHash string          `json:"transactionHash"`
	Price           decimal.Decimal `json:"price"`
	Asset           string          `json:"asset"`
	Side            Side            `json:"side"`
	OutcomeIndex    int             `json:"outcomeIndex"`
	Title           string          `json:"title"`
	Outcome         string          `json:"outcome"`
}
