// Package core provides error code definitions and error handling utilities
package core

import (
	"fmt"
	"net/http"
)

// ErrorCode represents an error code type
type ErrorCode int

// Error code constants
const (
	// Common errors (1000-1999)
	ErrSuccess          ErrorCode = 0
	ErrUnknown          ErrorCode = 1000
	ErrInvalidParam     ErrorCode = 1001
	ErrUnauthorized     ErrorCode = 1002
	ErrForbidden        ErrorCode = 1003
	ErrNotFound         ErrorCode = 1004
	ErrTooManyRequests  ErrorCode = 1005
	ErrInternalServer   ErrorCode = 1006
	ErrUnsupportedMedia ErrorCode = 1007
	ErrValidation       ErrorCode = 1008

	// Database errors (2000-2999)
	ErrDBQuery    ErrorCode = 2000
	ErrDBInsert   ErrorCode = 2001
	ErrDBNotFound ErrorCode = 2002

	// Catalog errors (3000-3999)
	ErrTermTooLong    ErrorCode = 3000
	ErrMissingNonce   ErrorCode = 3001
	ErrCrossOrigin    ErrorCode = 3002
	ErrEmptyFileName  ErrorCode = 3003
	ErrDocumentGone   ErrorCode = 3004

	// Notification errors (4000-4999)
	ErrMailSend     ErrorCode = 4000
	ErrReportEmpty  ErrorCode = 4001
	ErrBadSchedule  ErrorCode = 4002
)

// errorMessages maps error codes to human-readable messages
var errorMessages = map[ErrorCode]string{
	ErrSuccess:          "success",
	ErrUnknown:          "unknown error",
	ErrInvalidParam:     "invalid parameter",
	ErrUnauthorized:     "unauthorized",
	ErrForbidden:        "forbidden",
	ErrNotFound:         "not found",
	ErrTooManyRequests:  "rate limited",
	ErrInternalServer:   "internal server error",
	ErrUnsupportedMedia: "unsupported media type",
	ErrValidation:       "validation failed",

	ErrDBQuery:    "database query failed",
	ErrDBInsert:   "database insert failed",
	ErrDBNotFound: "record not found",

	ErrTermTooLong:   "search term too long",
	ErrMissingNonce:  "missing or invalid nonce",
	ErrCrossOrigin:   "cross-origin request",
	ErrEmptyFileName: "file name is required",
	ErrDocumentGone:  "document no longer available",

	ErrMailSend:    "failed to send mail",
	ErrReportEmpty: "no downloads in report period",
	ErrBadSchedule: "invalid report schedule",
}

// httpStatusMap maps error codes to HTTP status codes
var httpStatusMap = map[ErrorCode]int{
	ErrSuccess:          http.StatusOK,
	ErrUnknown:          http.StatusInternalServerError,
	ErrInvalidParam:     http.StatusBadRequest,
	ErrUnauthorized:     http.StatusUnauthorized,
	ErrForbidden:        http.StatusForbidden,
	ErrNotFound:         http.StatusNotFound,
	ErrTooManyRequests:  http.StatusTooManyRequests,
	ErrInternalServer:   http.StatusInternalServerError,
	ErrUnsupportedMedia: http.StatusUnsupportedMediaType,
	ErrValidation:       http.StatusBadRequest,

	ErrDBQuery:    http.StatusInternalServerError,
	ErrDBInsert:   http.StatusInternalServerError,
	ErrDBNotFound: http.StatusNotFound,

	ErrTermTooLong:   http.StatusBadRequest,
	ErrMissingNonce:  http.StatusForbidden,
	ErrCrossOrigin:   http.StatusForbidden,
	ErrEmptyFileName: http.StatusBadRequest,
	ErrDocumentGone:  http.StatusGone,

	ErrMailSend:    http.StatusInternalServerError,
	ErrReportEmpty: http.StatusNoContent,
	ErrBadSchedule: http.StatusBadRequest,
}

// GetErrorMessage returns the message for an error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("error %d", code)
}

// GetHTTPStatus returns the HTTP status for an error code
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
