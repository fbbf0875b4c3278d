// Package request shapes query parameters for API paths.
package request

const (
	// InitialCursor requests the first page.
	InitialCursor = "MA=="
	// EndCursor is returned as next_cursor after the last page.
	EndCursor = "LTE="
)

// PaginationParams carries the cursor of cursor-paginated endpoints.
type PaginationParams struct {
	NextCursor string `url:"next_cursor,omitempty"`
}

// NewPagination starts at the first page.
func NewPagination() PaginationParams {
	return PaginationParams{NextCursor: InitialCursor}
}

// IsEnd reports whether the last page has been read.
func (p PaginationParams) IsEnd() bool {
	return p.NextCursor == EndCursor
}

// Advance moves to next. An empty cursor ends pagination.
func (p *PaginationParams) Advance(next string) {
	if next == "" {
		next = EndCursor
	}
	p.NextCursor = next
}
