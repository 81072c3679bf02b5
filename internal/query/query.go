// Package query derives one page of results from a full in-memory collection.
package query

import (
	"sort"
	"strings"
)

const (
	DefaultPage   = 1
	DefaultLimit  = 10
	MaxLimit      = 100
	DefaultSortBy = "createdAt"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Record is implemented by every listable model.
type Record interface {
	SearchText() []string
	SortKey(field string) string
}

// Params are the list options accepted by the list endpoints
type Params struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
	Search    string `json:"search"`
}

// Page is a slice of a filtered and sorted collection
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// Normalize fills defaults and clamps out-of-range values.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	p.SortOrder = strings.ToLower(p.SortOrder)
	if p.SortOrder != OrderAsc {
		p.SortOrder = OrderDesc
	}
	return p
}

// Apply filters, sorts and slices rows. The input slice is not modified.
func Apply[T Record](rows []T, p Params) Page[T] {
	p = p.Normalize()

	matched := Filter(rows, p.Search)
	Sort(matched, p.SortBy, p.SortOrder)

	total := len(matched)
	start := (p.Page - 1) * p.Limit
	end := start + p.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	data := make([]T, end-start)
	copy(data, matched[start:end])

	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}
}

// Filter returns a new slice holding the rows whose search fields contain term,
// compared case-insensitively. An empty term matches everything.
func Filter[T Record](rows []T, term string) []T {
	out := make([]T, 0, len(rows))
	needle := strings.ToLower(term)
	for _, row := range rows {
		if needle == "" || matches(row, needle) {
			out = append(out, row)
		}
	}
	return out
}

func matches(r Record, needle string) bool {
	for _, field := range r.SearchText() {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Sort orders rows in place by the sort key of field. Equal keys keep their
// insertion order in both directions.
func Sort[T Record](rows []T, field, order string) {
	desc := order != OrderAsc
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].SortKey(field), rows[j].SortKey(field)
		if desc {
			return a > b
		}
		return a < b
	})
}
