package types

import "math"

// Book is one catalog record. Provenance columns (scrape date, source URL)
// stay in storage and never reach this type.
type Book struct {
	Id            string  `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Summary       string  `json:"summary"`
	Genre         string  `json:"genre"`
	Tags          string  `json:"tags"`
	Cover         string  `json:"cover"`
	Format        string  `json:"format"`
	Store         string  `json:"store"`
	Size          string  `json:"size"`
	TotalPages    int     `json:"total_pages"`
	Price         float64 `json:"price"`
	PublishedDate string  `json:"published_date"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int64  `json:"count"`
}

type PageInfo struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// NewPageInfo computes pagination metadata for a 1-based page over total
// matches. Zero matches means zero pages.
func NewPageInfo(page, limit int, total int64) PageInfo {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return PageInfo{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}
