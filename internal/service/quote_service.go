package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"clob_go/internal/domain"
	"clob_go/internal/infra"
	"clob_go/internal/orders"

	"github.com/shopspring/decimal"
)

type quoteKey struct {
	tokenID string
	side    domain.Side
}

// QuoteService prices market orders against live books and keeps the
// latest quote per token and side
type QuoteService struct {
	books   domain.BookFetcher
	repo    domain.SnapshotRepository // optional
	metrics *infra.Metrics
	logger  *slog.Logger
	nowFunc func() time.Time

	mu     sync.RWMutex
	latest map[quoteKey]domain.Quote
}

// NewQuoteService creates a QuoteService. repo may be nil.
func NewQuoteService(books domain.BookFetcher, repo domain.SnapshotRepository, metrics *infra.Metrics) *QuoteService {
	if metrics == nil {
		metrics = infra.GlobalMetrics
	}
	return &QuoteService{
		books:   books,
		repo:    repo,
		metrics: metrics,
		logger:  slog.Default().With("module", "quote_service"),
		nowFunc: time.Now,
		latest:  make(map[quoteKey]domain.Quote),
	}
}

// Quote fetches the book of tokenID and prices a market order of amount
// notional on side. Successful quotes are cached and recorded.
func (s *QuoteService) Quote(ctx context.Context, tokenID string, side domain.Side, amount decimal.Decimal) (domain.Quote, error) {
	book, err := s.books.GetOrderBook(ctx, tokenID)
	if err != nil {
		return domain.Quote{}, err
	}
	s.saveBook(tokenID, book)

	return s.quoteBook(tokenID, book, side, amount)
}

// QuoteBothSides fetches the book once and prices a buy and a sell of
// amount. A side without enough liquidity is skipped; the error is returned
// only when neither side could be priced.
func (s *QuoteService) QuoteBothSides(ctx context.Context, tokenID string, amount decimal.Decimal) ([]domain.Quote, error) {
	book, err := s.books.GetOrderBook(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	s.saveBook(tokenID, book)

	var (
		quotes  []domain.Quote
		lastErr error
	)
	for _, side := range []domain.Side{domain.SideBuy, domain.SideSell} {
		q, err := s.quoteBook(tokenID, book, side, amount)
		if err != nil {
			lastErr = err
			continue
		}
		quotes = append(quotes, q)
	}

	if len(quotes) == 0 {
		return nil, lastErr
	}
	return quotes, nil
}

func (s *QuoteService) quoteBook(tokenID string, book *domain.OrderBookSummary, side domain.Side, amount decimal.Decimal) (domain.Quote, error) {
	price, err := orders.MarketPriceForSide(book, side, amount)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientLiquidity) {
			s.metrics.RecordLiquidityMiss()
		}
		return domain.Quote{}, err
	}

	q := domain.Quote{
		TokenID:  tokenID,
		Side:     side,
		Amount:   amount,
		Price:    price,
		BookHash: book.Hash,
		QuotedAt: s.nowFunc(),
	}
	s.metrics.RecordQuote()

	s.mu.Lock()
	s.latest[quoteKey{tokenID, side}] = q
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.SaveQuote(q); err != nil {
			s.logger.Warn("Failed to save quote", slog.String("token", tokenID), slog.Any("error", err))
		}
	}

	s.logger.Debug("Quote computed",
		slog.String("token", tokenID),
		slog.String("side", side.String()),
		slog.String("amount", amount.String()),
		slog.String("price", price.String()),
	)
	return q, nil
}

func (s *QuoteService) saveBook(tokenID string, book *domain.OrderBookSummary) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveBookSnapshot(tokenID, book); err != nil {
		s.logger.Warn("Failed to save book snapshot", slog.String("token", tokenID), slog.Any("error", err))
	}
}

// LatestQuote returns the cached quote for tokenID and side, if any
func (s *QuoteService) LatestQuote(tokenID string, side domain.Side) (domain.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.latest[quoteKey{tokenID, side}]
	return q, ok
}

// LatestQuotes returns all cached quotes sorted by token, then side
func (s *QuoteService) LatestQuotes() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Quote, 0, len(s.latest))
	for _, q := range s.latest {
		result = append(result, q)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TokenID != result[j].TokenID {
			return result[i].TokenID < result[j].TokenID
		}
		return result[i].Side < result[j].Side
	})

	return result
}
