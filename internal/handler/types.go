// Package api provides the public widget endpoints and the admin API
package api

import (
	"strings"

	models "document-downloader/api/internal/model"
)

// QueryRequest is the public query endpoint payload
type QueryRequest struct {
	Search string   `json:"search"`
	Tax    []string `json:"tax"`
	Nonce  string   `json:"nonce"`
}

// LogRequest is the public download-log payload
type LogRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	FileName string `json:"filename"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Nonce    string `json:"nonce"`
}

// DocumentItem is one catalog entry on the wire
type DocumentItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Ext   string `json:"ext"`
}

// NewDocumentItem maps a catalog document to its wire form
func NewDocumentItem(doc *models.Document) DocumentItem {
	ext := strings.ToLower(doc.FileExt)
	if ext == "" {
		ext = "file"
	}
	return DocumentItem{
		ID:    doc.ID,
		Title: doc.Title,
		URL:   doc.FileURL,
		Ext:   ext,
	}
}

// NewDocumentItems maps a result set to its wire form. Always returns a
// non-nil slice so an empty result serializes as [] rather than null.
func NewDocumentItems(docs []*models.Document) []DocumentItem {
	items := make([]DocumentItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, NewDocumentItem(doc))
	}
	return items
}

// wireError is the error body the public endpoints speak
type wireError struct {
	Error string `json:"error"`
}
