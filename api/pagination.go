package api

import (
	"net/url"
	"strconv"
)

// DefaultPageSize is used when a caller asks for a non-positive page size.
const DefaultPageSize = 20

// Page is the envelope every paginated list endpoint returns. Items is the only data; everything
// else is metadata.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// EmptyPage is the zero result returned without a network call or after a failed read.
func EmptyPage[T any](page, pageSize int) Page[T] {
	page, pageSize = normalisePaging(page, pageSize)
	return Page[T]{
		Items:    []T{},
		Page:     page,
		PageSize: pageSize,
	}
}

// normalisePaging only fixes values the server can't interpret. Pages past the end are sent as is;
// the server clamps them to its last page.
func normalisePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

func pagingQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return q
}
