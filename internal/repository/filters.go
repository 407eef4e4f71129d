// Package repository provides data access layer interfaces and implementations.
// This file defines filter and pagination structures for repository queries.
package repository

import (
	"strings"
	"time"
)

// Pagination holds offset pagination parameters
type Pagination struct {
	Page     int
	PageSize int
	Offset   int
}

// NewPagination creates a new pagination with validation.
// Page starts from 1, default PageSize is 20, max PageSize is 200.
func NewPagination(page, pageSize int) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}

	return &Pagination{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// DocumentFilter narrows document queries
type DocumentFilter struct {
	// TaxonomySlugs restricts results to documents filed under any of the
	// given document type slugs. Empty means no taxonomy restriction.
	TaxonomySlugs []string
	// TitleLike is an optional case-insensitive substring prefilter on the
	// title; word-level and exact-match semantics are applied by the caller.
	TitleLike string
}

// DownloadFilter narrows download log queries
type DownloadFilter struct {
	// FileName and Email accept * and ? wildcards.
	FileName string
	Email    string
	DateFrom *time.Time
	DateTo   *time.Time

	Pagination *Pagination
}

// wildcardToLike converts a filter pattern with * and ? wildcards into a SQL
// LIKE pattern. A pattern without wildcards matches as a substring.
func wildcardToLike(pattern string) string {
	p := strings.NewReplacer("%", "\\%", "_", "\\_").Replace(pattern)
	if !strings.ContainsAny(p, "*?") {
		return "%" + p + "%"
	}
	p = strings.ReplaceAll(p, "*", "%")
	p = strings.ReplaceAll(p, "?", "_")
	return p
}
