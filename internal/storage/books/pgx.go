package books

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog/internal/types"
)

// bookCols is the public projection: scrape_date and source_url exist in the
// table but are never selected.
var bookCols = []any{
	"id", "title", "author", "summary", "genre", "tags",
	"cover", "format", "store", "size", "total_pages", "price",
	"published_date",
}

func NewPGXRepository(pg *pgxpool.Pool, l *slog.Logger) Repository {
	return &pgxRepo{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxRepo struct {
	pg *pgxpool.Pool
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type pgxBook struct {
	Id            string  `db:"id"`
	Title         string  `db:"title"`
	Author        string  `db:"author"`
	Summary       string  `db:"summary"`
	Genre         string  `db:"genre"`
	Tags          string  `db:"tags"`
	Cover         string  `db:"cover"`
	Format        string  `db:"format"`
	Store         string  `db:"store"`
	Size          string  `db:"size"`
	TotalPages    int     `db:"total_pages"`
	Price         float64 `db:"price"`
	PublishedDate string  `db:"published_date"`
}

func (b *pgxBook) intoCommon() *types.Book {
	return &types.Book{
		Id:            b.Id,
		Title:         b.Title,
		Author:        b.Author,
		Summary:       b.Summary,
		Genre:         b.Genre,
		Tags:          b.Tags,
		Cover:         b.Cover,
		Format:        b.Format,
		Store:         b.Store,
		Size:          b.Size,
		TotalPages:    b.TotalPages,
		Price:         b.Price,
		PublishedDate: b.PublishedDate,
	}
}

// predicate translates a Filter into goqu expressions. ILIKE keeps % and _
// live as wildcards, so plain substrings and SQL-style patterns both work,
// on every query path.
func predicate(f Filter) []goqu.Expression {
	var exprs []goqu.Expression

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		pat := "%" + kw + "%"
		exprs = append(exprs, goqu.Or(
			goqu.C("title").ILike(pat),
			goqu.C("author").ILike(pat),
			goqu.C("summary").ILike(pat),
		))
	}

	if g := strings.TrimSpace(f.Genre); g != "" {
		exprs = append(exprs, goqu.C("genre").ILike("%"+g+"%"))
	}

	if y := strings.TrimSpace(f.Year); y != "" {
		exprs = append(exprs, goqu.C("published_date").ILike("%"+y+"%"))
	}

	return exprs
}

// dateKeySQL renders published_date into a sortable year-month-day key,
// matching NormalizeDate. The bare CASE yields NULL for unknown month names
// and nullif catches a missing year token; either NULL poisons the whole
// concatenation, so malformed dates order last under NULLS LAST.
func dateKeySQL() string {
	var sb strings.Builder

	sb.WriteString("nullif(split_part(published_date, ' ', 3), '')")
	sb.WriteString(" || '-' || case split_part(published_date, ' ', 2)")
	for ix, name := range monthNames {
		fmt.Fprintf(&sb, " when '%s' then '%02d'", name, ix+1)
	}
	sb.WriteString(" end")
	sb.WriteString(" || '-' || lpad(split_part(published_date, ' ', 1), 2, '0')")

	return sb.String()
}

var dateKey = goqu.L(dateKeySQL())

func (p *pgxRepo) GetById(ctx context.Context, id string) (*types.Book, error) {
	sql, params, err := p.g.From("book").
		Select(bookCols...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row pgxBook

	err = pgxscan.Get(ctx, p.pg, &row, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
		}
		return nil, err
	}

	return row.intoCommon(), nil
}

func (p *pgxRepo) Search(ctx context.Context, f Filter, sort Sort, limit, offset int) ([]*types.Book, int64, error) {
	exprs := predicate(f)

	sql, params, err := p.g.From("book").
		Select(goqu.COUNT("*")).
		Where(exprs...).
		ToSQL()
	if err != nil {
		return nil, 0, err
	}

	var total int64

	err = pgxscan.Get(ctx, p.pg, &total, sql, params...)
	if err != nil {
		return nil, 0, err
	}

	qb := p.g.From("book").
		Select(bookCols...).
		Where(exprs...)

	if limit > 0 {
		qb = qb.Limit(uint(limit))
	}

	if offset > 0 {
		qb = qb.Offset(uint(offset))
	}

	switch sort {
	case SortNewest:
		qb = qb.Order(dateKey.Desc().NullsLast(), goqu.C("id").Asc())
	case SortOldest:
		qb = qb.Order(dateKey.Asc().NullsLast(), goqu.C("id").Asc())
	case SortTitleAZ:
		qb = qb.Order(goqu.C("title").Asc())
	case SortTitleZA:
		qb = qb.Order(goqu.C("title").Desc())
	case SortPriceLowHigh:
		qb = qb.Order(goqu.C("price").Asc())
	case SortPriceHighLow:
		qb = qb.Order(goqu.C("price").Desc())
	default:
		// Unrecognized sorts leave the order storage-defined.
	}

	sql, params, err = qb.ToSQL()
	if err != nil {
		return nil, 0, err
	}

	var rows []pgxBook

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, 0, err
	}

	ret := make([]*types.Book, 0, len(rows))
	for ix := range rows {
		ret = append(ret, rows[ix].intoCommon())
	}

	return ret, total, nil
}

func (p *pgxRepo) SampleOne(ctx context.Context, f Filter) (*types.Book, error) {
	sql, params, err := p.g.From("book").
		Select(bookCols...).
		Where(predicate(f)...).
		Order(goqu.L("random()").Asc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row pgxBook

	err = pgxscan.Get(ctx, p.pg, &row, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
		}
		return nil, err
	}

	return row.intoCommon(), nil
}

type pgxGenreCount struct {
	Genre string `db:"genre"`
	Count int64  `db:"count"`
}

func (p *pgxRepo) GenreCounts(ctx context.Context) ([]types.GenreCount, error) {
	sql, params, err := p.g.From("book").
		Select(goqu.C("genre"), goqu.COUNT("*").As("count")).
		GroupBy(goqu.C("genre")).
		Order(goqu.C("count").Desc(), goqu.C("genre").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxGenreCount

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]types.GenreCount, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, types.GenreCount{Genre: row.Genre, Count: row.Count})
	}

	return ret, nil
}
