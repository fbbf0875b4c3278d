// Package clob is the typed client for the order book exchange API.
package clob

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"clob_go/internal/domain"
	"clob_go/internal/infra/rest"
	"clob_go/internal/orders"
	"clob_go/internal/request"

	"github.com/shopspring/decimal"
)

// ErrNoDataAPI is returned by data API calls on a client built without one.
var ErrNoDataAPI = errors.New("data api not configured")

// ErrCursorLoop is returned when the server hands back a cursor that was
// already requested.
var ErrCursorLoop = errors.New("pagination cursor repeated")

// Client calls the CLOB API and, optionally, the data API.
// Authenticated calls take caller-built headers; nothing is signed here.
type Client struct {
	clob   *rest.Client
	data   *rest.Client
	logger *slog.Logger
}

// NewClient creates a client. data may be nil.
func NewClient(clobTransport, dataTransport *rest.Client) *Client {
	return &Client{
		clob:   clobTransport,
		data:   dataTransport,
		logger: slog.Default().With("module", "clob_client"),
	}
}

func tokenQuery(path, tokenID string) string {
	return path + "?token_id=" + url.QueryEscape(tokenID)
}

// GetServerTime returns the exchange's unix time in seconds.
func (c *Client) GetServerTime(ctx context.Context) (int64, error) {
	return rest.Get[int64](ctx, c.clob, TimePath, nil)
}

// GetOrderBook fetches the book of one token.
func (c *Client) GetOrderBook(ctx context.Context, tokenID string) (*domain.OrderBookSummary, error) {
	book, err := rest.Get[domain.OrderBookSummary](ctx, c.clob, tokenQuery(OrderBookPath, tokenID), nil)
	if err != nil {
		return nil, fmt.Errorf("get order book %s: %w", tokenID, err)
	}
	return &book, nil
}

// GetOrderBooks fetches several books in one request.
func (c *Client) GetOrderBooks(ctx context.Context, params []domain.BookParams) ([]domain.OrderBookSummary, error) {
	books, err := rest.Post[[]domain.OrderBookSummary](ctx, c.clob, OrderBooksPath, params, nil)
	if err != nil {
		return nil, fmt.Errorf("get order books: %w", err)
	}
	return books, nil
}

// GetMidpoint returns the mid price of a token.
func (c *Client) GetMidpoint(ctx context.Context, tokenID string) (decimal.Decimal, error) {
	mid, err := rest.Get[domain.Midpoint](ctx, c.clob, tokenQuery(MidpointPath, tokenID), nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("get midpoint %s: %w", tokenID, err)
	}
	return mid.Mid, nil
}

// GetPrice returns the best price for side.
func (c *Client) GetPrice(ctx context.Context, tokenID string, side domain.Side) (decimal.Decimal, error) {
	path := tokenQuery(PricePath, tokenID) + "&side=" + side.String()
	price, err := rest.Get[domain.Price](ctx, c.clob, path, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("get price %s: %w", tokenID, err)
	}
	return price.Price, nil
}

// GetSpread returns the bid/ask spread of a token.
func (c *Client) GetSpread(ctx context.Context, tokenID string) (decimal.Decimal, error) {
	spread, err := rest.Get[domain.Spread](ctx, c.clob, tokenQuery(SpreadPath, tokenID), nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("get spread %s: %w", tokenID, err)
	}
	return spread.Spread, nil
}

// GetTickSize returns the minimum price increment of a token.
func (c *Client) GetTickSize(ctx context.Context, tokenID string) (decimal.Decimal, error) {
	ts, err := rest.Get[domain.TickSize](ctx, c.clob, tokenQuery(TickSizePath, tokenID), nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("get tick size %s: %w", tokenID, err)
	}
	return ts.MinimumTickSize, nil
}

// GetNegRisk reports whether a token belongs to a neg-risk market.
func (c *Client) GetNegRisk(ctx context.Context, tokenID string) (bool, error) {
	nr, err := rest.Get[domain.NegRisk](ctx, c.clob, tokenQuery(NegRiskPath, tokenID), nil)
	if err != nil {
		return false, fmt.Errorf("get neg risk %s: %w", tokenID, err)
	}
	return nr.NegRisk, nil
}

// GetLastTradePrice returns the last traded price and its side.
func (c *Client) GetLastTradePrice(ctx context.Context, tokenID string) (domain.LastTradePrice, error) {
	ltp, err := rest.Get[domain.LastTradePrice](ctx, c.clob, tokenQuery(LastTradePricePath, tokenID), nil)
	if err != nil {
		return domain.LastTradePrice{}, fmt.Errorf("get last trade price %s: %w", tokenID, err)
	}
	return ltp, nil
}

// GetMarkets fetches one page of markets starting at cursor.
func (c *Client) GetMarkets(ctx context.Context, cursor request.PaginationParams) (*domain.MarketsPage, error) {
	path, err := request.WithQuery(MarketsPath, cursor)
	if err != nil {
		return nil, err
	}
	page, err := rest.Get[domain.MarketsPage](ctx, c.clob, path, nil)
	if err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}
	return &page, nil
}

// GetMarket fetches one market by condition ID.
func (c *Client) GetMarket(ctx context.Context, conditionID string) (*domain.Market, error) {
	m, err := rest.Get[domain.Market](ctx, c.clob, MarketPath+url.PathEscape(conditionID), nil)
	if err != nil {
		return nil, fmt.Errorf("get market %s: %w", conditionID, err)
	}
	return &m, nil
}

// GetOpenOrders follows cursors until the last page and returns every order.
func (c *Client) GetOpenOrders(ctx context.Context, headers domain.Headers, params request.OpenOrderParams) ([]domain.OpenOrder, error) {
	var all []domain.OpenOrder
	cursor := request.NewPagination()
	seen := make(map[string]struct{})

	for !cursor.IsEnd() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("get open orders: %w", err)
		}
		seen[cursor.NextCursor] = struct{}{}

		path, err := request.WithQuery(OpenOrdersPath, struct {
			request.OpenOrderParams
			request.PaginationParams
		}{params, cursor})
		if err != nil {
			return nil, err
		}

		page, err := rest.Get[domain.OrdersPage](ctx, c.clob, path, headers)
		if err != nil {
			return nil, fmt.Errorf("get open orders: %w", err)
		}
		all = append(all, page.Data...)

		if _, dup := seen[page.NextCursor]; dup {
			return nil, fmt.Errorf("get open orders: %w: %q", ErrCursorLoop, page.NextCursor)
		}
		cursor.Advance(page.NextCursor)
	}
	return all, nil
}

// PostOrder submits an already-signed order.
func (c *Client) PostOrder(ctx context.Context, headers domain.Headers, req domain.PostOrderRequest) (*domain.PostOrderResponse, error) {
	resp, err := rest.Post[domain.PostOrderResponse](ctx, c.clob, PostOrderPath, req, headers)
	if err != nil {
		return nil, fmt.Errorf("post order: %w", err)
	}
	if !resp.Success && resp.ErrorMsg != "" {
		c.logger.Warn("order rejected", slog.String("error", resp.ErrorMsg))
	}
	return &resp, nil
}

// CancelOrder cancels one order.
func (c *Client) CancelOrder(ctx context.Context, headers domain.Headers, orderID string) (*domain.CancelResponse, error) {
	body := map[string]string{"orderID": orderID}
	resp, err := rest.DeleteWithBody[domain.CancelResponse](ctx, c.clob, CancelOrderPath, body, headers)
	if err != nil {
		return nil, fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	return &resp, nil
}

// CancelOrders cancels several orders.
func (c *Client) CancelOrders(ctx context.Context, headers domain.Headers, orderIDs []string) (*domain.CancelResponse, error) {
	resp, err := rest.DeleteWithBody[domain.CancelResponse](ctx, c.clob, CancelOrdersPath, orderIDs, headers)
	if err != nil {
		return nil, fmt.Errorf("cancel orders: %w", err)
	}
	return &resp, nil
}

// CancelAll cancels every open order of the caller.
func (c *Client) CancelAll(ctx context.Context, headers domain.Headers) (*domain.CancelResponse, error) {
	resp, err := rest.Delete[domain.CancelResponse](ctx, c.clob, CancelAllPath, headers)
	if err != nil {
		return nil, fmt.Errorf("cancel all: %w", err)
	}
	return &resp, nil
}

// CancelMarketOrders cancels the caller's orders in a market, optionally
// restricted to one asset.
func (c *Client) CancelMarketOrders(ctx context.Context, headers domain.Headers, market, assetID string) (*domain.CancelResponse, error) {
	body := struct {
		Market  string `json:"market,omitempty"`
		AssetID string `json:"asset_id,omitempty"`
	}{market, assetID}
	resp, err := rest.DeleteWithBody[domain.CancelResponse](ctx, c.clob, CancelMarketOrdersPath, body, headers)
	if err != nil {
		return nil, fmt.Errorf("cancel market orders %s: %w", market, err)
	}
	return &resp, nil
}

// GetTrades queries user fills on the data API.
func (c *Client) GetTrades(ctx context.Context, params request.TradeQueryParams) ([]domain.Trade, error) {
	if c.data == nil {
		return nil, ErrNoDataAPI
	}
	path, err := request.WithQuery(TradesPath, params)
	if err != nil {
		return nil, err
	}
	trades, err := rest.Get[[]domain.Trade](ctx, c.data, path, nil)
	if err != nil {
		return nil, fmt.Errorf("get trades: %w", err)
	}
	return trades, nil
}

// GetActivity queries user activity on the data API.
func (c *Client) GetActivity(ctx context.Context, params request.ActivityQueryParams) ([]domain.Activity, error) {
	if c.data == nil {
		return nil, ErrNoDataAPI
	}
	path, err := request.WithQuery(ActivityPath, params)
	if err != nil {
		return nil, err
	}
	activity, err := rest.Get[[]domain.Activity](ctx, c.data, path, nil)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return activity, nil
}

// CalculateMarketPrice fetches the book of tokenID and returns the price a
// market order of amount notional on side would be filled at.
func (c *Client) CalculateMarketPrice(ctx context.Context, tokenID string, side domain.Side, amount decimal.Decimal) (decimal.Decimal, error) {
	book, err := c.GetOrderBook(ctx, tokenID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return orders.MarketPriceForSide(book, side, amount)
}
