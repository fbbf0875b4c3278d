package request

import (
	"strings"

	"clob_go/internal/domain"

	"github.com/google/go-querystring/query"
)

// ActivitySortBy is the sort field of activity queries.
type ActivitySortBy string

const (
	SortByTimestamp ActivitySortBy = "TIMESTAMP"
	SortByTokens    ActivitySortBy = "TOKENS"
	SortByCash      ActivitySortBy = "CASH"
)

// SortDirection orders query results.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ActivityQueryParams filters GET /activity on the data API.
type ActivityQueryParams struct {
	User          string         `url:"user,omitempty"`
	Market        []string       `url:"market,comma,omitempty"`
	Type          []string       `url:"type,comma,omitempty"`
	Limit         int            `url:"limit,omitempty"`
	Offset        int            `url:"offset,omitempty"`
	SortBy        ActivitySortBy `url:"sortBy,omitempty"`
	SortDirection SortDirection  `url:"sortDirection,omitempty"`
	Start         int64          `url:"start,omitempty"`
	End           int64          `url:"end,omitempty"`
	Side          domain.Side    `url:"side,omitempty"`
}

// TradeQueryParams filters GET /trades on the data API.
type TradeQueryParams struct {
	User      string      `url:"user,omitempty"`
	Market    []string    `url:"market,comma,omitempty"`
	Limit     int         `url:"limit,omitempty"`
	Offset    int         `url:"offset,omitempty"`
	TakerOnly *bool       `url:"takerOnly,omitempty"`
	Side      domain.Side `url:"side,omitempty"`
}

// OpenOrderParams filters GET /data/orders.
type OpenOrderParams struct {
	ID      string `url:"id,omitempty"`
	Market  string `url:"market,omitempty"`
	AssetID string `url:"asset_id,omitempty"`
}

// WithQuery appends params, encoded from their url tags, to path.
// Nothing is appended when every field is empty.
func WithQuery(path string, params any) (string, error) {
	values, err := query.Values(params)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return path, nil
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + values.Encode(), nil
}
