package api

import (
	"net/http"
	"testing"
)

func TestLog_StoresRecord(t *testing.T) {
	downloads := &fakeDownloadRepo{}
	h := NewLogHandler(downloads, nil, nil)

	w := serve(t, h.Log, jsonRequest(http.MethodPost, "/log", LogRequest{
		FileName: "annual-report.pdf",
		Title:    "Annual Report",
		Email:    " visitor@example.com ",
		URL:      "https://example.com/uploads/annual-report.pdf",
	}))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"ok":true}` {
		t.Fatalf("unexpected body: %s", body)
	}

	if len(downloads.inserted) != 1 {
		t.Fatalf("inserted %d records, want 1", len(downloads.inserted))
	}
	rec := downloads.inserted[0]
	if rec.FileName != "annual-report.pdf" {
		t.Fatalf("file name = %q", rec.FileName)
	}
	if rec.Email != "visitor@example.com" {
		t.Fatalf("email not trimmed: %q", rec.Email)
	}
	if rec.DownloadedAt.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestLog_EmptyFileName(t *testing.T) {
	downloads := &fakeDownloadRepo{}
	h := NewLogHandler(downloads, nil, nil)

	for _, name := range []string{"", "   ", ".", "../../"} {
		w := serve(t, h.Log, jsonRequest(http.MethodPost, "/log", LogRequest{FileName: name}))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("file name %q: status = %d, want 400", name, w.Code)
		}
		if body := w.Body.String(); body != `{"error":"bad_request"}` {
			t.Fatalf("file name %q: unexpected body: %s", name, body)
		}
	}
	if len(downloads.inserted) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestLog_InsertFailure(t *testing.T) {
	downloads := &fakeDownloadRepo{insertErr: assertErr("db down")}
	h := NewLogHandler(downloads, nil, nil)

	w := serve(t, h.Log, jsonRequest(http.MethodPost, "/log", LogRequest{FileName: "report.pdf"}))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestLog_StripsPathComponents(t *testing.T) {
	downloads := &fakeDownloadRepo{}
	h := NewLogHandler(downloads, nil, nil)

	w := serve(t, h.Log, jsonRequest(http.MethodPost, "/log", LogRequest{
		FileName: "../../etc/passwd",
	}))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if got := downloads.inserted[0].FileName; got != "passwd" {
		t.Fatalf("file name = %q, want passwd", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{" report.pdf ", "report.pdf"},
		{"dir/report.pdf", "report.pdf"},
		{`c:\docs\report.pdf`, "report.pdf"},
		{"re\x00port.pdf", "report.pdf"},
		{".", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := sanitizeFileName(tt.in); got != tt.want {
			t.Fatalf("sanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
