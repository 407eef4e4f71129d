package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	models "document-downloader/api/internal/model"
	"document-downloader/api/internal/repository"
	core "document-downloader/api/internal/service"
	"document-downloader/api/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeDocumentRepo serves canned documents and counts queries
type fakeDocumentRepo struct {
	docs     []*models.Document
	slugs    []string
	err      error
	searches int
	filter   repository.DocumentFilter
}

func (f *fakeDocumentRepo) Search(_ context.Context, filter repository.DocumentFilter) ([]*models.Document, error) {
	f.searches++
	f.filter = filter
	return f.docs, f.err
}

func (f *fakeDocumentRepo) GetByID(_ context.Context, id int) (*models.Document, error) {
	for _, d := range f.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDocumentRepo) TaxonomySlugs(_ context.Context) ([]string, error) {
	return f.slugs, f.err
}

// fakeDownloadRepo records inserts
type fakeDownloadRepo struct {
	inserted  []*models.DownloadRecord
	insertErr error
	records   []*models.DownloadRecord
	total     int64
}

func (f *fakeDownloadRepo) EnsureSchema(context.Context) error { return nil }

func (f *fakeDownloadRepo) Insert(_ context.Context, rec *models.DownloadRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	rec.ID = int64(len(f.inserted) + 1)
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeDownloadRepo) List(context.Context, repository.DownloadFilter) ([]*models.DownloadRecord, int64, error) {
	return f.records, f.total, nil
}

func (f *fakeDownloadRepo) ListBetween(context.Context, time.Time, time.Time) ([]*models.DownloadRecord, error) {
	return f.records, nil
}

func testSettings() *core.SettingsWatcher {
	cfg := &config.Config{}
	cfg.Downloads.MinSearchChars = 3
	cfg.Downloads.MaxSearchChars = 100
	cfg.Downloads.RateLimit = 30
	cfg.Downloads.RateLimitWindow = 60
	return core.NewSettingsWatcher("config.yaml", cfg)
}

func newTestNonces() *core.NonceService {
	return core.NewNonceService("test-secret-key-for-unit-test", 24*time.Hour)
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(t *testing.T, handler gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Handle(req.Method, req.URL.Path, handler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
