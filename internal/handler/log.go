package api

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	models "document-downloader/api/internal/model"
	"document-downloader/api/internal/repository"
	core "document-downloader/api/internal/service"
)

// LiveDownloadsChannel is the Redis channel new download records are
// published on for the live admin feed
const LiveDownloadsChannel = "downloads:live"

// LogHandler serves the public download-log endpoint
type LogHandler struct {
	downloads repository.DownloadRepository
	notifier  *core.Notifier
	rdb       *redis.Client
}

// NewLogHandler creates a log handler. rdb may be nil when Redis is disabled.
func NewLogHandler(downloads repository.DownloadRepository, notifier *core.Notifier, rdb *redis.Client) *LogHandler {
	return &LogHandler{downloads: downloads, notifier: notifier, rdb: rdb}
}

// Log handles POST /api/v1/downloads/log. Responds 201 {"ok":true} once the
// record is stored; notification mail and the live feed happen off-request.
func (h *LogHandler) Log(c *gin.Context) {
	noCacheHeaders(c)

	var req LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wireError{Error: "bad_request"})
		return
	}

	fileName := sanitizeFileName(req.FileName)
	if fileName == "" {
		c.JSON(http.StatusBadRequest, wireError{Error: "bad_request"})
		return
	}

	rec := &models.DownloadRecord{
		PostTitle:    strings.TrimSpace(req.Title),
		FileName:     fileName,
		Email:        strings.TrimSpace(req.Email),
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		DownloadedAt: time.Now(),
		IP:           c.ClientIP(),
		URL:          strings.TrimSpace(req.URL),
	}

	if err := h.downloads.Insert(c.Request.Context(), rec); err != nil {
		log.Error().Err(err).Str("file", fileName).Msg("Download log insert failed")
		c.JSON(http.StatusInternalServerError, wireError{Error: "server_error"})
		return
	}

	go h.afterLog(rec)

	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// afterLog runs the analytics side effects of a logged download
func (h *LogHandler) afterLog(rec *models.DownloadRecord) {
	if h.notifier != nil {
		h.notifier.NotifyDownload(rec)
	}
	if h.rdb != nil {
		payload, err := json.Marshal(rec)
		if err != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.rdb.Publish(ctx, LiveDownloadsChannel, payload).Err(); err != nil {
			log.Debug().Err(err).Msg("Live feed publish failed")
		}
	}
}

// sanitizeFileName strips directory components and control characters from a
// client-supplied file name
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
}
