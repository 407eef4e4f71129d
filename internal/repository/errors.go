// Package repository provides data access layer interfaces and implementations.
// This file defines common error types used across all repository operations.
package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEntry is returned when a duplicate entry is detected
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// IsDuplicateKeyError reports whether err is a MySQL duplicate-key error
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	// MySQL: Error 1062 - Duplicate entry
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
