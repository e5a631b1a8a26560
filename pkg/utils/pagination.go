package utils

import "math"

// PaginationParams holds pagination request parameters
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// PaginationMeta holds pagination response metadata
type PaginationMeta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
}

// GetPaginationParams extracts page and limit with defaults.
// Pages are 1-based; limit=0 means every item on one page.
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

// CalculateOffset returns the index of the first item on the page
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// CalculateMeta generates pagination metadata
func CalculateMeta(totalCount int64, page, limit int) PaginationMeta {
	if limit <= 0 {
		return PaginationMeta{
			Page:       1,
			Limit:      int(totalCount),
			TotalCount: totalCount,
			TotalPages: 1,
		}
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))
	if totalPages < 0 {
		totalPages = 0
	}

	return PaginationMeta{
		Page:        page,
		Limit:       limit,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasNextPage: int64(page)*int64(limit) < totalCount,
	}
}

// Paginate slices an already assembled, already ordered collection.
func Paginate[T any](items []T, p PaginationParams) ([]T, PaginationMeta) {
	meta := CalculateMeta(int64(len(items)), p.Page, p.Limit)
	if p.Limit <= 0 {
		return items, meta
	}

	start := p.CalculateOffset()
	if start >= len(items) {
		return []T{}, meta
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}
