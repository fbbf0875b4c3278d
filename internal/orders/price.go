// Package orders holds order-building helpers that work on book snapshots.
package orders

import (
	"fmt"

	"clob_go/internal/domain"

	"github.com/shopspring/decimal"
)

// CalculateMarketPrice walks levels best-to-worst, accumulating size*price,
// and returns the price of the level at which the running notional first
// reaches amountToMatch. That is the worst price the market order touches,
// not a volume-weighted average.
//
// levels must already be ordered best-to-worst; they are neither sorted nor
// modified here. An amountToMatch <= 0 is not rejected.
func CalculateMarketPrice(levels []domain.OrderSummary, amountToMatch decimal.Decimal) (decimal.Decimal, error) {
	sum := decimal.Zero

	for _, l := range levels {
		sum = sum.Add(l.Size.Mul(l.Price))
		if sum.GreaterThanOrEqual(amountToMatch) {
			return l.Price, nil
		}
	}

	return decimal.Decimal{}, &domain.InvalidOrderError{
		Reason: fmt.Sprintf("Not enough liquidity to create market order with amount %s", amountToMatch),
		Err:    domain.ErrInsufficientLiquidity,
	}
}

// MarketPriceForSide prices a market order on side against book.
// A buy consumes asks, a sell consumes bids.
func MarketPriceForSide(book *domain.OrderBookSummary, side domain.Side, amountToMatch decimal.Decimal) (decimal.Decimal, error) {
	if side != domain.SideBuy && side != domain.SideSell {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", domain.ErrInvalidSide, string(side))
	}
	return CalculateMarketPrice(book.Levels(side), amountToMatch)
}
