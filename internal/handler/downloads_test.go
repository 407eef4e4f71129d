package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	models "document-downloader/api/internal/model"
)

func TestDownloadsList(t *testing.T) {
	downloads := &fakeDownloadRepo{
		records: []*models.DownloadRecord{
			{ID: 1, FileName: "report.pdf", DownloadedAt: time.Now()},
		},
		total: 1,
	}
	h := NewDownloadsHandler(downloads)

	req := httptest.NewRequest(http.MethodGet, "/downloads?page=1&page_size=10", nil)
	w := serve(t, h.List, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Total int64           `json:"total"`
			Page  int             `json:"page"`
			Items json.RawMessage `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad envelope: %v (%s)", err, w.Body.String())
	}
	if resp.Data.Total != 1 || resp.Data.Page != 1 {
		t.Fatalf("unexpected page data: %+v", resp.Data)
	}
}

func TestDownloadsList_BadDate(t *testing.T) {
	h := NewDownloadsHandler(&fakeDownloadRepo{})

	req := httptest.NewRequest(http.MethodGet, "/downloads?date_from=03-05-2026", nil)
	w := serve(t, h.List, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDownloadsExport(t *testing.T) {
	downloads := &fakeDownloadRepo{
		records: []*models.DownloadRecord{
			{ID: 1, PostTitle: "Annual Report", FileName: "report.pdf", DownloadedAt: time.Now()},
		},
		total: 1,
	}
	h := NewDownloadsHandler(downloads)

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	w := serve(t, h.Export, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "ID,Title,File Name") {
		t.Fatalf("missing CSV header: %s", w.Body.String())
	}
}

func TestParseFilter_EndDateIsInclusive(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/downloads?date_from=2026-03-01&date_to=2026-03-05", nil)

	filter, err := parseFilter(c)
	if err != nil {
		t.Fatal(err)
	}

	wantFrom := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	wantTo := time.Date(2026, 3, 6, 0, 0, 0, 0, time.Local)
	if !filter.DateFrom.Equal(wantFrom) {
		t.Fatalf("date_from = %v, want %v", filter.DateFrom, wantFrom)
	}
	if !filter.DateTo.Equal(wantTo) {
		t.Fatalf("date_to = %v, want %v (exclusive bound after the inclusive day)", filter.DateTo, wantTo)
	}
}

func TestWidgetConfig(t *testing.T) {
	docs := &fakeDocumentRepo{slugs: []string{"policies", "reports"}}
	cfg := testSettings()
	h := NewWidgetHandler(docs, cfg, newTestNonces())

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	w := serve(t, h.Config, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"endpoints", "nonce", "gate", "search", "pagination", "taxonomies", "icons"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("config missing %q: %s", key, w.Body.String())
		}
	}

	var nonce string
	if err := json.Unmarshal(body["nonce"], &nonce); err != nil || nonce == "" {
		t.Fatalf("bad nonce field: %s", body["nonce"])
	}

	var taxonomies []string
	if err := json.Unmarshal(body["taxonomies"], &taxonomies); err != nil || len(taxonomies) != 2 {
		t.Fatalf("bad taxonomies: %s", body["taxonomies"])
	}
}
