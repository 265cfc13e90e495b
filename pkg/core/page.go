package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// MaxItemsPerPage is the largest page size the API accepts.
const MaxItemsPerPage = 100

// PageRequest selects one page of a paged collection. Page numbers start at 1.
type PageRequest struct {
	PageNumber      int `json:"page" validate:"min=1"`
	MaxItemsPerPage int `json:"per_page" validate:"min=1,max=100"`
}

// FirstPage returns a request for the first page with the given size.
func FirstPage(perPage int) PageRequest {
	return PageRequest{PageNumber: 1, MaxItemsPerPage: perPage}
}

// Validate returns an argument error when the page number or size is out of range.
func (r PageRequest) Validate() error {
	if r.PageNumber < 1 {
		return NewArgumentError("page number must be >= 1, got %d", r.PageNumber)
	}
	if r.MaxItemsPerPage < 1 || r.MaxItemsPerPage > MaxItemsPerPage {
		return NewArgumentError("items per page must be within [1, %d], got %d", MaxItemsPerPage, r.MaxItemsPerPage)
	}
	return validate.Struct(r)
}

// Next returns the request for the following page.
func (r PageRequest) Next() PageRequest {
	return PageRequest{PageNumber: r.PageNumber + 1, MaxItemsPerPage: r.MaxItemsPerPage}
}

// Params returns the page and per_page query parameters.
func (r PageRequest) Params() Params {
	return Params{
		"page":     fmt.Sprint(r.PageNumber),
		"per_page": fmt.Sprint(r.MaxItemsPerPage),
	}
}

// Page is one page of a paged collection together with the request that
// produced it and the totals reported by the server.
type Page[T any] struct {
	pageNumber      int
	maxItemsPerPage int
	totalItems      int64
	totalPages      int64
	items           []T
}

// NewPage builds a page. Items must be non-nil; use an empty slice for an empty page.
func NewPage[T any](req PageRequest, totalItems, totalPages int64, items []T) (Page[T], error) {
	if items == nil {
		return Page[T]{}, errors.New("page items must not be nil")
	}
	for i, item := range items {
		if isNil(item) {
			return Page[T]{}, fmt.Errorf("page item %d is nil", i)
		}
	}
	return Page[T]{
		pageNumber:      req.PageNumber,
		maxItemsPerPage: req.MaxItemsPerPage,
		totalItems:      totalItems,
		totalPages:      totalPages,
		items:           items,
	}, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func (p Page[T]) PageNumber() int      { return p.pageNumber }
func (p Page[T]) MaxItemsPerPage() int { return p.maxItemsPerPage }
func (p Page[T]) TotalItems() int64    { return p.totalItems }
func (p Page[T]) TotalPages() int64    { return p.totalPages }
func (p Page[T]) Len() int             { return len(p.items) }

// Items returns a copy of the page's items in server order.
func (p Page[T]) Items() []T {
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return int64(p.pageNumber) < p.totalPages
}

// Request returns the page request that produced this page.
func (p Page[T]) Request() PageRequest {
	return PageRequest{PageNumber: p.pageNumber, MaxItemsPerPage: p.maxItemsPerPage}
}

type equaler[T any] interface {
	Equal(T) bool
}

// Equal reports whether both pages carry the same request, totals and items.
// Items are compared with their Equal method when they have one.
func (p Page[T]) Equal(other Page[T]) bool {
	if p.pageNumber != other.pageNumber ||
		p.maxItemsPerPage != other.maxItemsPerPage ||
		p.totalItems != other.totalItems ||
		p.totalPages != other.totalPages ||
		len(p.items) != len(other.items) {
		return false
	}
	for i := range p.items {
		if eq, ok := any(p.items[i]).(equaler[T]); ok {
			if !eq.Equal(other.items[i]) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(p.items[i], other.items[i]) {
			return false
		}
	}
	return true
}

func (p Page[T]) String() string {
	items := make([]string, len(p.items))
	for i, item := range p.items {
		items[i] = fmt.Sprint(item)
	}
	return fmt.Sprintf("Page{pageItems=[%s], pageNumber=%d, maxItemsPerPage=%d, totalItemsCount=%d, totalPagesCount=%d}",
		strings.Join(items, ", "), p.pageNumber, p.maxItemsPerPage, p.totalItems, p.totalPages)
}
