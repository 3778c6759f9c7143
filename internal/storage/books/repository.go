package books

import (
	"context"

	"bookcatalog/internal/types"
)

// Filter is the combined selection predicate over the catalog. Empty fields
// do not constrain. Matching is case-insensitive substring, with SQL-style
// wildcards (% and _) honored inside the values.
type Filter struct {
	Keyword string // matches title OR author OR summary
	Genre   string
	Year    string // matched against the raw published_date text
}

type Sort string

const (
	SortNewest       Sort = "newest"
	SortOldest       Sort = "oldest"
	SortTitleAZ      Sort = "titleAZ"
	SortTitleZA      Sort = "titleZA"
	SortPriceLowHigh Sort = "priceLowHigh"
	SortPriceHighLow Sort = "priceHighLow"
)

type Repository interface {
	// GetById returns nil without error when no record carries the id.
	GetById(ctx context.Context, id string) (*types.Book, error)

	// Search returns one limit/offset window of the filtered catalog plus the
	// total number of matches under the same filter, counted independently of
	// the window. SortNewest and SortOldest order by the key derived from the
	// free-text published_date; records whose date cannot be normalized come
	// after all dated ones. An unrecognized sort leaves the order
	// storage-defined.
	Search(ctx context.Context, f Filter, sort Sort, limit, offset int) ([]*types.Book, int64, error)

	// SampleOne draws one record uniformly at random from the filtered set,
	// independently on every call. Returns nil when nothing matches.
	SampleOne(ctx context.Context, f Filter) (*types.Book, error)

	// GenreCounts groups the whole catalog by genre, most frequent first,
	// with ties broken by genre name.
	GenreCounts(ctx context.Context) ([]types.GenreCount, error)
}
