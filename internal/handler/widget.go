package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"document-downloader/api/internal/repository"
	core "document-downloader/api/internal/service"
)

// defaultIconMap maps file extensions to icon asset names. Extensions
// without an entry fall back to the generic "file" icon.
var defaultIconMap = map[string]string{
	"pdf":  "file-type-pdf.svg",
	"doc":  "file-type-doc.svg",
	"docx": "file-type-docx.svg",
	"xls":  "file-type-xls.svg",
	"xlsx": "file-type-xlsx.svg",
	"jpg":  "file-type-jpg.svg",
	"jpeg": "file-type-jpeg.svg",
	"png":  "file-type-png.svg",
	"webp": "file-type-webp.svg",
	"gif":  "file-type-gif.svg",
	"svg":  "file-type-svg.svg",
	"file": "file.svg",
}

// WidgetHandler serves the widget bootstrap configuration
type WidgetHandler struct {
	docs     repository.DocumentRepository
	settings *core.SettingsWatcher
	nonces   *core.NonceService
}

// NewWidgetHandler creates a widget bootstrap handler
func NewWidgetHandler(docs repository.DocumentRepository, settings *core.SettingsWatcher, nonces *core.NonceService) *WidgetHandler {
	return &WidgetHandler{docs: docs, settings: settings, nonces: nonces}
}

// Config handles GET /api/v1/widget/config. Widgets read this once at
// initialization: endpoints, a fresh nonce, gate flags, search limits,
// pagination defaults, taxonomy slugs and the icon table.
func (h *WidgetHandler) Config(c *gin.Context) {
	noCacheHeaders(c)

	settings := h.settings.Current()

	slugs, err := h.docs.TaxonomySlugs(c.Request.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Taxonomy slug lookup failed")
		slugs = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"endpoints": gin.H{
			"query": "/api/v1/documents/query",
			"log":   "/api/v1/downloads/log",
		},
		"nonce": h.nonces.Issue(core.NonceAction),
		"gate": gin.H{
			"require_email": settings.Downloads.RequireEmail,
			"require_name":  settings.Downloads.RequireName,
			"require_phone": settings.Downloads.RequirePhone,
		},
		"search": gin.H{
			"min_chars":   settings.Downloads.MinSearchChars,
			"max_chars":   settings.Downloads.MaxSearchChars,
			"exact_match": settings.Downloads.ExactMatch,
		},
		"pagination": gin.H{
			"enabled":       settings.Downloads.Pagination.Enabled,
			"rows_per_page": settings.Downloads.Pagination.RowsPerPage,
			"page_window":   settings.Downloads.Pagination.PageWindow,
			"show_controls": settings.Downloads.Pagination.ShowControls,
		},
		"taxonomies": slugs,
		"icons":      defaultIconMap,
	})
}
