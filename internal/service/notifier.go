// Package core implements download notification mail.
package core

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	models "document-downloader/api/internal/model"
	"document-downloader/api/pkg/config"
)

// Attachment is a file attached to an outgoing mail
type Attachment struct {
	Name        string
	ContentType string
	Content     []byte
}

// Mailer sends mail. The SMTP implementation is swapped out in tests.
type Mailer interface {
	Send(to, subject, htmlBody string, attachments []Attachment) error
}

// SMTPMailer sends mail through a plain SMTP relay
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send builds a MIME message and submits it to the configured relay
func (m *SMTPMailer) Send(to, subject, htmlBody string, attachments []Attachment) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", writer.Boundary())

	bodyHeader := make(map[string][]string)
	bodyHeader["Content-Type"] = []string{"text/html; charset=UTF-8"}
	part, err := writer.CreatePart(bodyHeader)
	if err != nil {
		return fmt.Errorf("create body part: %w", err)
	}
	if _, err := part.Write([]byte(htmlBody)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}

	for _, att := range attachments {
		header := make(map[string][]string)
		header["Content-Type"] = []string{att.ContentType}
		header["Content-Transfer-Encoding"] = []string{"base64"}
		header["Content-Disposition"] = []string{fmt.Sprintf("attachment; filename=%q", att.Name)}
		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create attachment part: %w", err)
		}
		encoded := base64.StdEncoding.EncodeToString(att.Content)
		if _, err := part.Write([]byte(encoded)); err != nil {
			return fmt.Errorf("write attachment: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close mime writer: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, buf.Bytes()); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Notifier sends per-download notification mail when enabled
type Notifier struct {
	mailer   Mailer
	settings *SettingsWatcher
}

// NewNotifier creates a download notifier
func NewNotifier(mailer Mailer, settings *SettingsWatcher) *Notifier {
	return &Notifier{mailer: mailer, settings: settings}
}

// NotifyDownload sends the individual notification for a download record.
// Failures are logged and swallowed; notifications never affect the request.
func (n *Notifier) NotifyDownload(rec *models.DownloadRecord) {
	opts := n.settings.Current().Notifications
	if !opts.NotifyIndividually || opts.Email == "" {
		return
	}

	values := placeholderValues(rec)
	subject := replacePlaceholders(opts.Subject, values)
	body := ProcessConditionalPlaceholders(opts.Message, values)
	// Crude paragraph formatting for plain-text templates.
	body = "<p>" + strings.ReplaceAll(body, "\n\n", "</p><p>") + "</p>"

	if err := n.mailer.Send(opts.Email, subject, body, nil); err != nil {
		log.Warn().Err(err).Str("file", rec.FileName).Msg("Download notification failed")
	}
}

const naValue = "N/A"

func placeholderValues(rec *models.DownloadRecord) map[string]string {
	title := rec.PostTitle
	if title == "" {
		title = rec.FileName
	}
	return map[string]string{
		"{file_name}": rec.FileName,
		"{title}":     title,
		"{email}":     orNA(rec.Email),
		"{name}":      orNA(rec.Name),
		"{phone}":     orNA(rec.Phone),
		"{date}":      rec.DownloadedAt.Format("January 2, 2006 3:04 PM"),
		"{url}":       orNA(rec.URL),
		"{ip}":        orNA(rec.IP),
	}
}

func orNA(s string) string {
	if s == "" {
		return naValue
	}
	return s
}

func replacePlaceholders(template string, values map[string]string) string {
	for k, v := range values {
		template = strings.ReplaceAll(template, k, v)
	}
	return template
}

// conditionalRe matches {?field:content} blocks, where content may itself
// contain simple {placeholder} tokens but no nested conditionals.
var conditionalRe = regexp.MustCompile(`\{\?([^:}]+):([^{}]*(?:\{[^{}]*\}[^{}]*)*)\}`)

// ProcessConditionalPlaceholders resolves {?field:content} and
// {?field!otherfield:content} blocks, then substitutes remaining
// placeholders. Content is kept only if field has a real value (and, with the
// negation form, otherfield does not).
func ProcessConditionalPlaceholders(message string, values map[string]string) string {
	processed := message

	for i := 0; i < 10 && conditionalRe.MatchString(processed); i++ {
		processed = conditionalRe.ReplaceAllStringFunc(processed, func(match string) string {
			groups := conditionalRe.FindStringSubmatch(match)
			condition := strings.TrimSpace(groups[1])
			content := groups[2]

			if required, excluded, ok := strings.Cut(condition, "!"); ok {
				if hasValue(values, required) && !hasValue(values, excluded) {
					return content
				}
				return ""
			}
			if hasValue(values, condition) {
				return content
			}
			return ""
		})
	}

	return replacePlaceholders(processed, values)
}

func hasValue(values map[string]string, field string) bool {
	v, ok := values["{"+strings.TrimSpace(field)+"}"]
	return ok && v != "" && v != naValue
}

// ReportDate formats timestamps the way the mails and CSV exports do
func ReportDate(t time.Time) string {
	return t.Format("2006-01-02")
}
