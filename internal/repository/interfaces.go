// Package repository provides data access layer interfaces and implementations.
// This file defines all repository interfaces for data access operations.
package repository

import (
	"context"
	"time"

	models "document-downloader/api/internal/model"
)

// DocumentRepository provides access to the published document catalog
type DocumentRepository interface {
	// Search retrieves published documents matching the filter, ordered by
	// title ascending. The TitleLike prefilter is a coarse LIKE; exact and
	// all-words match semantics live in the service layer.
	Search(ctx context.Context, filter DocumentFilter) ([]*models.Document, error)

	// GetByID retrieves a single published document
	GetByID(ctx context.Context, id int) (*models.Document, error)

	// TaxonomySlugs returns all known document type slugs
	TaxonomySlugs(ctx context.Context) ([]string, error)
}

// DownloadRepository provides access to the download log
type DownloadRepository interface {
	// EnsureSchema creates the downloads table when it does not exist yet
	EnsureSchema(ctx context.Context) error

	// Insert appends a download record and fills in its ID
	Insert(ctx context.Context, rec *models.DownloadRecord) error

	// List retrieves download records with filtering and pagination,
	// ordered by download time ascending. Returns records and total count.
	List(ctx context.Context, filter DownloadFilter) ([]*models.DownloadRecord, int64, error)

	// ListBetween retrieves all records in [from, to), ordered by download
	// time ascending. Used by scheduled reports and CSV export.
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.DownloadRecord, error)
}
