package widget

import (
	"context"
	"errors"
	"testing"
)

// fakeTransfer records download calls
type fakeTransfer struct {
	calls []string
	err   error
}

func (t *fakeTransfer) Download(_ context.Context, fileURL, filename string) error {
	t.calls = append(t.calls, filename)
	return t.err
}

var testItem = Item{
	ID:    1,
	Title: "Annual Report",
	URL:   "https://example.com/uploads/annual-report.pdf",
	Ext:   "pdf",
}

func TestGateNoRequirementsDownloadsDirectly(t *testing.T) {
	client := &fakeClient{}
	transfer := &fakeTransfer{}
	g := NewGate(Requirements{}, client, transfer)

	if err := g.OnItemClick(context.Background(), testItem); err != nil {
		t.Fatal(err)
	}

	if g.Open() {
		t.Fatal("gate must not open without required fields")
	}
	if len(transfer.calls) != 1 || transfer.calls[0] != "annual-report.pdf" {
		t.Fatalf("unexpected transfer calls: %v", transfer.calls)
	}
	// The direct path records nothing.
	if len(client.logs) != 0 {
		t.Fatalf("direct download must not log: %v", client.logs)
	}
	if g.Pending() != nil {
		t.Fatal("pending should clear after a direct download")
	}
}

func TestGateOpensFreshFormPerClick(t *testing.T) {
	g := NewGate(Requirements{Email: true}, &fakeClient{}, &fakeTransfer{})

	g.OnItemClick(context.Background(), testItem)
	if !g.Open() {
		t.Fatal("gate should open")
	}

	g.SetEmail("stale@example.com")
	g.Cancel()

	g.OnItemClick(context.Background(), testItem)
	if got := g.Form().Email.Value; got != "" {
		t.Fatalf("form not reset between opens: %q", got)
	}
}

func TestGateValidation(t *testing.T) {
	t.Run("email", func(t *testing.T) {
		g := NewGate(Requirements{Email: true}, &fakeClient{}, &fakeTransfer{})
		g.OnItemClick(context.Background(), testItem)

		g.SetEmail("")
		if f := g.Form().Email; !f.Invalid || f.Message != MsgEmailRequired {
			t.Fatalf("empty email: %+v", f)
		}

		for _, bad := range []string{"nodomain", "no@tld", "two@@x.com", "sp ace@x.com", "@x.com"} {
			g.SetEmail(bad)
			if f := g.Form().Email; !f.Invalid || f.Message != MsgEmailInvalid {
				t.Fatalf("email %q: %+v", bad, f)
			}
		}

		g.SetEmail("visitor@example.com")
		if f := g.Form().Email; f.Invalid || f.Message != "" {
			t.Fatalf("valid email flagged: %+v", f)
		}
		if !g.Form().Valid {
			t.Fatal("form should be valid")
		}
	})

	t.Run("name", func(t *testing.T) {
		g := NewGate(Requirements{Name: true}, &fakeClient{}, &fakeTransfer{})
		g.OnItemClick(context.Background(), testItem)

		g.SetName("")
		if f := g.Form().Name; !f.Invalid || f.Message != MsgNameRequired {
			t.Fatalf("empty name: %+v", f)
		}

		g.SetName("A")
		if f := g.Form().Name; !f.Invalid || f.Message != MsgNameTooShort {
			t.Fatalf("one-character name: %+v", f)
		}

		g.SetName("Al")
		if f := g.Form().Name; f.Invalid {
			t.Fatalf("two-character name flagged: %+v", f)
		}
	})

	t.Run("phone", func(t *testing.T) {
		g := NewGate(Requirements{Phone: true}, &fakeClient{}, &fakeTransfer{})
		g.OnItemClick(context.Background(), testItem)

		g.SetPhone("")
		if f := g.Form().Phone; !f.Invalid || f.Message != MsgPhoneRequired {
			t.Fatalf("empty phone: %+v", f)
		}

		g.SetPhone("12345")
		if f := g.Form().Phone; !f.Invalid || f.Message != MsgPhoneInvalid {
			t.Fatalf("short phone: %+v", f)
		}

		g.SetPhone("5551234567")
		if f := g.Form().Phone; f.Invalid {
			t.Fatalf("valid phone flagged: %+v", f)
		}
	})

	t.Run("fields validate independently", func(t *testing.T) {
		g := NewGate(Requirements{Email: true, Name: true}, &fakeClient{}, &fakeTransfer{})
		g.OnItemClick(context.Background(), testItem)

		g.SetEmail("visitor@example.com")
		g.SetName("")

		form := g.Form()
		if form.Email.Invalid {
			t.Fatal("valid email flagged while name is empty")
		}
		if !form.Name.Invalid {
			t.Fatal("empty required name not flagged")
		}
		if form.Valid {
			t.Fatal("form cannot be valid with an invalid field")
		}
	})

	t.Run("non-required fields are ignored", func(t *testing.T) {
		g := NewGate(Requirements{Email: true}, &fakeClient{}, &fakeTransfer{})
		g.OnItemClick(context.Background(), testItem)

		g.SetEmail("visitor@example.com")
		g.SetName("")
		g.SetPhone("1")

		if !g.Form().Valid {
			t.Fatal("unrequired fields must not affect validity")
		}
	})
}

func TestGateSubmitLogsThenDownloads(t *testing.T) {
	client := &fakeClient{}
	transfer := &fakeTransfer{}
	g := NewGate(Requirements{Email: true}, client, transfer)

	g.OnItemClick(context.Background(), testItem)
	g.SetEmail("visitor@example.com")

	if err := g.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(client.logs) != 1 {
		t.Fatalf("logged %d times, want 1", len(client.logs))
	}
	entry := client.logs[0]
	if entry.Email != "visitor@example.com" || entry.FileName != "annual-report.pdf" || entry.Title != "Annual Report" {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
	if len(transfer.calls) != 1 {
		t.Fatalf("downloaded %d times, want 1", len(transfer.calls))
	}
	if g.Open() {
		t.Fatal("form should close on submit")
	}
}

func TestGateSubmitIgnoredWhileInvalid(t *testing.T) {
	client := &fakeClient{}
	transfer := &fakeTransfer{}
	g := NewGate(Requirements{Email: true}, client, transfer)

	g.OnItemClick(context.Background(), testItem)
	g.SetEmail("not-an-email")

	if err := g.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(client.logs) != 0 || len(transfer.calls) != 0 {
		t.Fatal("invalid submit must do nothing")
	}
	if !g.Open() {
		t.Fatal("form stays open after an invalid submit")
	}
}

func TestGateLogFailureDoesNotBlockDownload(t *testing.T) {
	client := &fakeClient{logErr: errors.New("log endpoint down")}
	transfer := &fakeTransfer{}
	g := NewGate(Requirements{Email: true}, client, transfer)

	g.OnItemClick(context.Background(), testItem)
	g.SetEmail("visitor@example.com")

	if err := g.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(transfer.calls) != 1 {
		t.Fatal("download must proceed when logging fails")
	}
	// The log call was still fully attempted first.
	if len(client.logs) != 1 {
		t.Fatal("log call was never attempted")
	}
}

func TestGateCancel(t *testing.T) {
	transfer := &fakeTransfer{}
	g := NewGate(Requirements{Email: true}, &fakeClient{}, transfer)

	g.OnItemClick(context.Background(), testItem)
	g.Cancel()

	if g.Open() || g.Pending() != nil {
		t.Fatal("cancel should clear the gate")
	}
	if len(transfer.calls) != 0 {
		t.Fatal("cancel must not download")
	}
}

func TestFileNameFor(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		title string
		ext   string
		want  string
	}{
		{"url basename with extension", "https://x.com/files/report-2026.pdf", "Ignored", "pdf", "report-2026.pdf"},
		{"query string stripped", "https://x.com/files/report.pdf?v=2", "Ignored", "pdf", "report.pdf"},
		{"no extension falls back to title", "https://x.com/download/42", "Annual Report", "pdf", "annual-report.pdf"},
		{"title slugified", "https://x.com/d/1", "Q1 Report: Final (v2)", "pdf", "q1-report-final-v2.pdf"},
		{"dot in title becomes hyphen", "https://x.com/d/1", "Notes.v2", "pdf", "notes-v2.pdf"},
		{"empty title falls back", "https://x.com/d/1", "", "pdf", "document.pdf"},
		{"no extension at all", "https://x.com/d/1", "Notes", "", "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileNameFor(tt.url, tt.title, tt.ext); got != tt.want {
				t.Fatalf("FileNameFor(%q, %q, %q) = %q, want %q", tt.url, tt.title, tt.ext, got, tt.want)
			}
		})
	}
}
