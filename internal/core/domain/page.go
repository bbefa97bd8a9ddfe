package domain

import (
	"fmt"
	"strings"
)

// Sort directions accepted by the links endpoint.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// Backend listing defaults.
const (
	DefaultPageSize = 20
	DefaultSortBy   = "extractedAt"
)

// Page is one page of a paginated listing. Number is zero-based.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
	Size          int `json:"size"`
	Number        int `json:"number"`
}

// Valid checks the pagination invariants: the page never holds more than Size
// items and, for a non-empty listing, Number lies in [0, TotalPages).
func (p Page[T]) Valid() error {
	if p.Size > 0 && len(p.Content) > p.Size {
		return fmt.Errorf("page holds %d items, more than size %d", len(p.Content), p.Size)
	}
	if p.TotalElements > 0 && (p.Number < 0 || p.Number >= p.TotalPages) {
		return fmt.Errorf("page number %d outside [0, %d)", p.Number, p.TotalPages)
	}
	return nil
}

// PageRequest selects a page of links.
type PageRequest struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}

// DefaultPageRequest mirrors the backend defaults.
func DefaultPageRequest() PageRequest {
	return PageRequest{
		Page:          0,
		Size:          DefaultPageSize,
		SortBy:        DefaultSortBy,
		SortDirection: SortDesc,
	}
}

// NormalizeSortDirection upper-cases d and falls back to DESC for anything
// that is not ASC.
func NormalizeSortDirection(d string) string {
	if strings.EqualFold(d, SortAsc) {
		return SortAsc
	}
	return SortDesc
}
