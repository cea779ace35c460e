package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Page size limits for list endpoints.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Page is one page of a list result.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// PageRequest selects a 1-based page. Zero values pick the first page and the
// default size.
type PageRequest struct {
	Page     int
	PageSize int
}

func (r PageRequest) normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	return r
}

// Paginate counts q, then loads the requested page ordered by order.
func Paginate[T any](q *gorm.DB, req PageRequest, order string) (Page[T], error) {
	req = req.normalize()
	page := Page[T]{Items: []T{}, Page: req.Page, PageSize: req.PageSize}

	if err := q.Session(&gorm.Session{}).Count(&page.Total).Error; err != nil {
		return page, fmt.Errorf("db: count: %w", err)
	}
	if page.Total == 0 {
		return page, nil
	}
	if err := q.Session(&gorm.Session{}).
		Order(order).
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&page.Items).Error; err != nil {
		return page, fmt.Errorf("db: page: %w", err)
	}
	return page, nil
}
