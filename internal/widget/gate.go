package widget

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// Field validation messages shown inline in the gate form.
const (
	MsgEmailRequired = "Email address is required"
	MsgEmailInvalid  = "Please enter a valid email address"
	MsgNameRequired  = "Name is required"
	MsgNameTooShort  = "Name must be at least 2 characters"
	MsgPhoneRequired = "Phone number is required"
	MsgPhoneInvalid  = "Please enter a valid phone number"
)

// Transfer performs the actual file retrieval once the gate clears it
type Transfer interface {
	Download(ctx context.Context, fileURL, filename string) error
}

// PendingDownload is the item selected plus its resolved filename. It exists
// only between item click and transfer-or-cancel.
type PendingDownload struct {
	Item     Item
	FileName string
}

// FieldState is one contact field's value and validation result
type FieldState struct {
	Value   string
	Invalid bool
	Message string
}

// ContactForm is the transient per-session gate form. Reset on every open.
type ContactForm struct {
	Email FieldState
	Name  FieldState
	Phone FieldState
	Valid bool
}

// Gate decides whether contact info must be collected before a download and
// runs the collection form when it must. Idle until an item is clicked; a
// click either hands off to the transfer directly or opens the form and
// awaits Submit or Cancel.
type Gate struct {
	requirements Requirements
	client       QueryClient
	transfer     Transfer

	pending *PendingDownload
	form    ContactForm
	open    bool
}

// NewGate creates a download gate
func NewGate(requirements Requirements, client QueryClient, transfer Transfer) *Gate {
	return &Gate{
		requirements: requirements,
		client:       client,
		transfer:     transfer,
	}
}

// Open reports whether the form is awaiting input
func (g *Gate) Open() bool { return g.open }

// Form returns the current form state
func (g *Gate) Form() ContactForm { return g.form }

// Pending returns the selected item, or nil when idle
func (g *Gate) Pending() *PendingDownload { return g.pending }

// OnItemClick handles a catalog item selection. With no required fields the
// transfer runs immediately; otherwise the form opens with fresh state.
func (g *Gate) OnItemClick(ctx context.Context, item Item) error {
	filename := FileNameFor(item.URL, item.Title, item.Ext)
	g.pending = &PendingDownload{Item: item, FileName: filename}

	if !g.requirements.Any() {
		defer func() { g.pending = nil }()
		return g.transfer.Download(ctx, item.URL, filename)
	}

	g.form = ContactForm{}
	g.open = true
	return nil
}

// SetEmail updates the email field and revalidates
func (g *Gate) SetEmail(value string) {
	g.form.Email.Value = value
	g.Validate()
}

// SetName updates the name field and revalidates
func (g *Gate) SetName(value string) {
	g.form.Name.Value = value
	g.Validate()
}

// SetPhone updates the phone field and revalidates
func (g *Gate) SetPhone(value string) {
	g.form.Phone.Value = value
	g.Validate()
}

// Validate checks every required field independently. Fields that are not
// required never affect validity and never carry messages.
func (g *Gate) Validate() bool {
	valid := true

	if g.requirements.Email {
		e := strings.TrimSpace(g.form.Email.Value)
		switch {
		case e == "":
			g.form.Email.Invalid = true
			g.form.Email.Message = MsgEmailRequired
			valid = false
		case !emailShapeOK(e):
			g.form.Email.Invalid = true
			g.form.Email.Message = MsgEmailInvalid
			valid = false
		default:
			g.form.Email.Invalid = false
			g.form.Email.Message = ""
		}
	}

	if g.requirements.Name {
		n := strings.TrimSpace(g.form.Name.Value)
		switch {
		case n == "":
			g.form.Name.Invalid = true
			g.form.Name.Message = MsgNameRequired
			valid = false
		case len([]rune(n)) < 2:
			g.form.Name.Invalid = true
			g.form.Name.Message = MsgNameTooShort
			valid = false
		default:
			g.form.Name.Invalid = false
			g.form.Name.Message = ""
		}
	}

	if g.requirements.Phone {
		p := strings.TrimSpace(g.form.Phone.Value)
		switch {
		case p == "":
			g.form.Phone.Invalid = true
			g.form.Phone.Message = MsgPhoneRequired
			valid = false
		case len([]rune(p)) < 7:
			g.form.Phone.Invalid = true
			g.form.Phone.Message = MsgPhoneInvalid
			valid = false
		default:
			g.form.Phone.Invalid = false
			g.form.Phone.Message = ""
		}
	}

	g.form.Valid = valid
	return valid
}

// Submit logs the download and hands off to the transfer. The log call is
// best-effort: its failure is swallowed and never blocks the download. The
// form must be valid; an invalid submit is a no-op.
func (g *Gate) Submit(ctx context.Context) error {
	if g.pending == nil || !g.form.Valid {
		return nil
	}
	item := g.pending.Item
	filename := g.pending.FileName

	// Log fully attempted, success or failure, before the transfer starts.
	_ = g.client.Log(ctx, LogEntry{
		Email:    g.form.Email.Value,
		Name:     g.form.Name.Value,
		Phone:    g.form.Phone.Value,
		FileName: filename,
		Title:    item.Title,
		URL:      item.URL,
	})

	g.open = false
	err := g.transfer.Download(ctx, item.URL, filename)
	g.pending = nil
	return err
}

// Cancel dismisses the form without downloading
func (g *Gate) Cancel() {
	g.open = false
	g.pending = nil
	g.form = ContactForm{}
}

// emailShapeOK checks the simple local@domain.tld shape: no whitespace, one
// @ with a dot somewhere after it
func emailShapeOK(email string) bool {
	if strings.ContainsAny(email, " \t") {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

var (
	extRe      = regexp.MustCompile(`\.[a-z0-9]+$`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// FileNameFor resolves the filename for a download: the URL's last path
// segment when it carries a dot-extension, otherwise the slugified title with
// the extension appended.
func FileNameFor(fileURL, title, ext string) string {
	if u, err := url.Parse(fileURL); err == nil {
		segments := strings.Split(u.Path, "/")
		base := segments[len(segments)-1]
		if i := strings.Index(base, "?"); i != -1 {
			base = base[:i]
		}
		if base != "" && extRe.MatchString(strings.ToLower(base)) {
			return base
		}
	}

	name := slugify(title)
	e := strings.ToLower(ext)
	if e != "" && !strings.HasSuffix(name, "."+e) {
		name += "." + e
	}
	return name
}

// slugify lowercases, collapses runs of non-alphanumerics to single hyphens
// and trims; empty input falls back to "document"
func slugify(title string) string {
	name := nonAlnumRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "document"
	}
	return name
}
