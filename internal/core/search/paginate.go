package search

import "listing-service/internal/core/domain"

// Paginate вырезает страницу из полного набора. Total и TotalPages
// считаются по тому же набору, поэтому согласованы со страницей.
func Paginate(hits []domain.SearchHit, page, pageSize int) domain.PaginatedListings {
	if page < 1 {
		page = domain.DefaultPage
	}
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}

	total := len(hits)
	result := domain.PaginatedListings{
		Results:    []domain.SearchHit{},
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}

	offset := (page - 1) * pageSize
	if offset >= total {
		return result
	}
	end := offset + pageSize
	if end > total {
		end = total
	}
	result.Results = append(result.Results, hits[offset:end]...)
	return result
}

// TotalPages - ceil(total / pageSize)
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
