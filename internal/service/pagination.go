package service

import "fittrack/fitness-app/internal/repository"

// PageResult is one page of a sorted list plus what a client needs to
// render pagination controls.
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func newPageResult[T any](items []T, page repository.Page, total int64) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if page.Size > 0 {
		pages = int((total + int64(page.Size) - 1) / int64(page.Size))
	}
	return &PageResult[T]{
		Items:      items,
		Page:       page.Number,
		PageSize:   page.Size,
		Total:      total,
		TotalPages: pages,
	}
}

// normalizePage clamps a 1-based page number and applies the configured size.
func normalizePage(number, size int) repository.Page {
	if number < 1 {
		number = 1
	}
	return repository.Page{Number: number, Size: size}
}
