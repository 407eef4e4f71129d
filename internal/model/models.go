// Package model defines the shared domain structures
package model

import "time"

// Document is one catalog entry: a published post with an attached file.
type Document struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	FileURL   string    `db:"file_url" json:"url"`
	FileExt   string    `db:"file_ext" json:"ext"`
	Status    int       `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentType is a taxonomy term documents can be filed under.
type DocumentType struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

// DownloadRecord is one row of the download log.
type DownloadRecord struct {
	ID           int64     `db:"id" json:"id"`
	PostTitle    string    `db:"post_title" json:"post_title"`
	FileName     string    `db:"file_name" json:"file_name"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	Phone        string    `db:"phone" json:"phone"`
	DownloadedAt time.Time `db:"downloaded_at" json:"downloaded_at"`
	IP           string    `db:"ip" json:"ip"`
	URL          string    `db:"url" json:"url"`
}
