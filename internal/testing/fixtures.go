package testing

import (
	"time"

	models "document-downloader/api/internal/model"
)

// Fixtures provides canned test data
type Fixtures struct{}

// NewFixtures creates a new fixtures instance
func NewFixtures() *Fixtures {
	return &Fixtures{}
}

// ValidDocument returns a valid published document for testing
func (f *Fixtures) ValidDocument() *models.Document {
	now := time.Now()
	return &models.Document{
		ID:        1,
		Title:     "Annual Report",
		FileURL:   "https://example.com/uploads/documents/annual-report.pdf",
		FileExt:   "pdf",
		Status:    1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ValidDownload returns a valid download record for testing
func (f *Fixtures) ValidDownload() *models.DownloadRecord {
	return &models.DownloadRecord{
		ID:           1,
		PostTitle:    "Annual Report",
		FileName:     "annual-report.pdf",
		Email:        "visitor@example.com",
		Name:         "Visitor",
		Phone:        "5551234567",
		DownloadedAt: time.Now(),
		IP:           "203.0.113.7",
		URL:          "https://example.com/uploads/documents/annual-report.pdf",
	}
}
