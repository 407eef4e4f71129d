package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"document-downloader/api/internal/repository"
	core "document-downloader/api/internal/service"
)

// DownloadsHandler serves the admin download-log views
type DownloadsHandler struct {
	downloads repository.DownloadRepository
}

// NewDownloadsHandler creates a downloads admin handler
func NewDownloadsHandler(downloads repository.DownloadRepository) *DownloadsHandler {
	return &DownloadsHandler{downloads: downloads}
}

// parseFilter builds a DownloadFilter from list/export query parameters.
// file_name and email accept * and ? wildcards; dates are YYYY-MM-DD and the
// end date is inclusive.
func parseFilter(c *gin.Context) (repository.DownloadFilter, error) {
	filter := repository.DownloadFilter{
		FileName: c.Query("file_name"),
		Email:    c.Query("email"),
	}

	if from := c.Query("date_from"); from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid date_from: %w", err)
		}
		filter.DateFrom = &t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid date_to: %w", err)
		}
		end := t.AddDate(0, 0, 1)
		filter.DateTo = &end
	}

	return filter, nil
}

// List handles GET /api/admin/downloads
func (h *DownloadsHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		core.FailWithMessage(c, core.ErrInvalidParam, err.Error())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter.Pagination = repository.NewPagination(page, pageSize)

	records, total, err := h.downloads.List(c.Request.Context(), filter)
	if err != nil {
		core.HandleError(c, err)
		return
	}

	core.SuccessPaged(c, records, total, filter.Pagination.Page, filter.Pagination.PageSize)
}

// Export handles GET /api/admin/downloads/export. Streams the filtered log
// as a CSV attachment.
func (h *DownloadsHandler) Export(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		core.FailWithMessage(c, core.ErrInvalidParam, err.Error())
		return
	}

	records, _, err := h.downloads.List(c.Request.Context(), filter)
	if err != nil {
		core.HandleError(c, err)
		return
	}

	name := fmt.Sprintf("downloads-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", core.BuildDownloadsCSV(records))
}
