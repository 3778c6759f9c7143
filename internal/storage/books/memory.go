package books

import (
	"context"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"bookcatalog/internal/types"
)

// NewMemoryRepository indexes the given records in memory. Matching, ordering
// and sampling semantics mirror the pgx repository; it backs tests and small
// embedded catalogs.
func NewMemoryRepository(records ...*types.Book) Repository {
	byId := make(map[string]*types.Book, len(records))
	for _, b := range records {
		byId[b.Id] = b
	}

	return &memoryRepo{records: records, byId: byId}
}

type memoryRepo struct {
	records []*types.Book
	byId    map[string]*types.Book
}

// matchPattern reports whether needle occurs in haystack, case-insensitively,
// with % and _ translated to their SQL LIKE meanings.
func matchPattern(haystack, needle string) bool {
	pat := strings.NewReplacer("%", ".*", "_", ".").Replace(regexp.QuoteMeta(needle))

	re, err := regexp.Compile("(?is)" + pat)
	if err != nil {
		return false
	}

	return re.MatchString(haystack)
}

func matches(f Filter, b *types.Book) bool {
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		if !matchPattern(b.Title, kw) && !matchPattern(b.Author, kw) && !matchPattern(b.Summary, kw) {
			return false
		}
	}

	if g := strings.TrimSpace(f.Genre); g != "" && !matchPattern(b.Genre, g) {
		return false
	}

	if y := strings.TrimSpace(f.Year); y != "" && !matchPattern(b.PublishedDate, y) {
		return false
	}

	return true
}

func (m *memoryRepo) filtered(f Filter) []*types.Book {
	var ret []*types.Book
	for _, b := range m.records {
		if matches(f, b) {
			ret = append(ret, b)
		}
	}

	return ret
}

func orderRows(rows []*types.Book, s Sort) {
	switch s {
	case SortNewest, SortOldest:
		asc := s == SortOldest
		sort.SliceStable(rows, func(i, j int) bool {
			ki, iok := NormalizeDate(rows[i].PublishedDate)
			kj, jok := NormalizeDate(rows[j].PublishedDate)

			if iok != jok {
				return iok // dated records come before undated ones
			}
			if !iok || ki == kj {
				return rows[i].Id < rows[j].Id
			}
			if asc {
				return ki < kj
			}
			return ki > kj
		})
	case SortTitleAZ:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Title < rows[j].Title })
	case SortTitleZA:
		sort.SliceStable(rows, func(i, j int) bool { return rows[j].Title < rows[i].Title })
	case SortPriceLowHigh:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Price < rows[j].Price })
	case SortPriceHighLow:
		sort.SliceStable(rows, func(i, j int) bool { return rows[j].Price < rows[i].Price })
	default:
		// Unrecognized sorts keep insertion order.
	}
}

func (m *memoryRepo) GetById(_ context.Context, id string) (*types.Book, error) {
	return m.byId[id], nil
}

func (m *memoryRepo) Search(_ context.Context, f Filter, s Sort, limit, offset int) ([]*types.Book, int64, error) {
	rows := m.filtered(f)
	total := int64(len(rows))

	orderRows(rows, s)

	if offset >= len(rows) {
		return []*types.Book{}, total, nil
	}
	if offset > 0 {
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	return rows, total, nil
}

func (m *memoryRepo) SampleOne(_ context.Context, f Filter) (*types.Book, error) {
	rows := m.filtered(f)
	if len(rows) == 0 {
		return nil, nil
	}

	return rows[rand.Intn(len(rows))], nil
}

func (m *memoryRepo) GenreCounts(_ context.Context) ([]types.GenreCount, error) {
	counts := make(map[string]int64)
	for _, b := range m.records {
		counts[b.Genre]++
	}

	ret := make([]types.GenreCount, 0, len(counts))
	for genre, count := range counts {
		ret = append(ret, types.GenreCount{Genre: genre, Count: count})
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Count != ret[j].Count {
			return ret[i].Count > ret[j].Count
		}
		return ret[i].Genre < ret[j].Genre
	})

	return ret, nil
}
