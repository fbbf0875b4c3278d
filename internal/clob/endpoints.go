package clob

// CLOB endpoints
const (
	TimePath               = "/time"
	OrderBookPath          = "/book"
	OrderBooksPath         = "/books"
	MidpointPath           = "/midpoint"
	PricePath              = "/price"
	SpreadPath             = "/spread"
	TickSizePath           = "/tick-size"
	NegRiskPath            = "/neg-risk"
	LastTradePricePath     = "/last-trade-price"
	MarketsPath            = "/markets"
	MarketPath             = "/markets/"
	OpenOrdersPath         = "/data/orders"
	PostOrderPath          = "/order"
	CancelOrderPath        = "/order"
	CancelOrdersPath       = "/orders"
	CancelAllPath          = "/cancel-all"
	CancelMarketOrdersPath = "/cancel-market-orders"
)

// Data API endpoints
const (
	TradesPath   = "/trades"
	ActivityPath = "/activity"
)
