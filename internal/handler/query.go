package api

import (
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"document-downloader/api/internal/repository"
	core "document-downloader/api/internal/service"
)

// QueryHandler serves the public catalog query endpoint
type QueryHandler struct {
	docs     repository.DocumentRepository
	settings *core.SettingsWatcher
	cache    *core.ResultCache
}

// NewQueryHandler creates a query handler
func NewQueryHandler(docs repository.DocumentRepository, settings *core.SettingsWatcher, cache *core.ResultCache) *QueryHandler {
	return &QueryHandler{docs: docs, settings: settings, cache: cache}
}

// Query handles POST /api/v1/documents/query.
// Returns a bare JSON array of {id, title, url, ext} ordered by title; the
// widgets depend on this exact shape.
func (h *QueryHandler) Query(c *gin.Context) {
	noCacheHeaders(c)

	ctype := c.GetHeader("Content-Type")
	if ctype != "" && !strings.Contains(strings.ToLower(ctype), "application/json") {
		c.JSON(http.StatusUnsupportedMediaType, wireError{Error: "unsupported_media_type"})
		return
	}

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wireError{Error: "bad_request"})
		return
	}

	settings := h.settings.Current()
	term := strings.TrimSpace(req.Search)
	termLen := utf8.RuneCountInString(term)

	// Empty term lists the whole catalog; a non-empty term below the
	// minimum is not an error, just no results yet.
	if term != "" && termLen < settings.Downloads.MinSearchChars {
		c.JSON(http.StatusOK, []DocumentItem{})
		return
	}
	if termLen > settings.Downloads.MaxSearchChars {
		c.JSON(http.StatusBadRequest, wireError{Error: "too_long"})
		return
	}
	if settings.Exclusions.Excluded(term) {
		c.JSON(http.StatusOK, []DocumentItem{})
		return
	}

	tax := sanitizeSlugs(req.Tax)
	exact := settings.Downloads.ExactMatch

	key := h.cache.Key(term, tax, exact)
	if docs, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, NewDocumentItems(docs))
		return
	}

	filter := repository.DocumentFilter{TaxonomySlugs: tax}
	if term != "" && !exact {
		// Coarse prefilter on the rarest-looking word; full word matching
		// happens below.
		filter.TitleLike = longestWord(term)
	}

	docs, err := h.docs.Search(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("Document query failed")
		c.JSON(http.StatusInternalServerError, wireError{Error: "server_error"})
		return
	}

	if term != "" {
		matched := docs[:0]
		for _, doc := range docs {
			if core.TitleMatches(doc.Title, term, exact) {
				matched = append(matched, doc)
			}
		}
		docs = matched
	}

	h.cache.Set(key, docs)
	c.JSON(http.StatusOK, NewDocumentItems(docs))
}

var slugRe = regexp.MustCompile(`[^a-z0-9-]+`)

// sanitizeSlugs normalizes taxonomy slugs and drops anything that does not
// survive as a slug
func sanitizeSlugs(raw []string) []string {
	slugs := make([]string, 0, len(raw))
	for _, s := range raw {
		s = slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
		if s != "" {
			slugs = append(slugs, s)
		}
	}
	return slugs
}

func longestWord(term string) string {
	longest := ""
	for _, word := range strings.Fields(term) {
		if len(word) > len(longest) {
			longest = word
		}
	}
	return longest
}
