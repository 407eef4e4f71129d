// Package core provides unified response format for HTTP handlers
package core

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Response represents a unified API response structure.
// The public widget endpoints speak their own wire contract; these helpers
// back the admin API only.
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// PagedData represents paginated data
type PagedData struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Pages    int64       `json:"pages"`
}

// NewPagedData creates a new PagedData instance
func NewPagedData(items interface{}, total int64, page, pageSize int) *PagedData {
	pages := total / int64(pageSize)
	if total%int64(pageSize) > 0 {
		pages++
	}
	return &PagedData{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
	}
}

// getRequestID extracts request ID from gin context
func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// Success sends a success response with data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      int(ErrSuccess),
		Message:   GetErrorMessage(ErrSuccess),
		Data:      data,
		Timestamp: time.Now().Unix(),
		RequestID: getRequestID(c),
	})
}

// SuccessPaged sends a success response with paginated data
func SuccessPaged(c *gin.Context, items interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, Response{
		Code:      int(ErrSuccess),
		Message:   GetErrorMessage(ErrSuccess),
		Data:      NewPagedData(items, total, page, pageSize),
		Timestamp: time.Now().Unix(),
		RequestID: getRequestID(c),
	})
}

// FailWithCode sends a failure response with specific error code
func FailWithCode(c *gin.Context, code ErrorCode) {
	c.JSON(GetHTTPStatus(code), Response{
		Code:      int(code),
		Message:   GetErrorMessage(code),
		Timestamp: time.Now().Unix(),
		RequestID: getRequestID(c),
	})
}

// FailWithMessage sends a failure response with custom message
func FailWithMessage(c *gin.Context, code ErrorCode, message string) {
	c.JSON(GetHTTPStatus(code), Response{
		Code:      int(code),
		Message:   message,
		Timestamp: time.Now().Unix(),
		RequestID: getRequestID(c),
	})
}

// HandleError handles an error and sends an appropriate admin API response
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if svcErr := GetServiceError(err); svcErr != nil {
		FailWithMessage(c, svcErr.Code, svcErr.Message)
		return
	}
	FailWithMessage(c, ErrInternalServer, err.Error())
}

// Abort sends a failure response and aborts the request
func Abort(c *gin.Context, code ErrorCode) {
	c.AbortWithStatusJSON(GetHTTPStatus(code), Response{
		Code:      int(code),
		Message:   GetErrorMessage(code),
		Timestamp: time.Now().Unix(),
		RequestID: getRequestID(c),
	})
}

// AbortWithMessage sends a failure response with custom message and aborts
func AbortWithMessage(c *gin.Context, code ErrorCode, message string) {
	c.AbortWithStatusJSON(GetHTTPStatus(code), Response{
		Code:      int(code),
		Message:   message,
		Timestamp: time.Now().Unix(),
		RequestID: getRequestID(c),
	})
}
