package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	models "document-downloader/api/internal/model"
	"document-downloader/api/internal/repository"
)

// Report schedules, all firing at 09:00 server time.
const (
	scheduleDaily   = "0 0 9 * * *"
	scheduleWeekly  = "0 0 9 * * 1"
	scheduleMonthly = "0 0 9 1 * *"
)

// ReportScheduler mails periodic CSV reports of logged downloads
type ReportScheduler struct {
	cron      *cron.Cron
	downloads repository.DownloadRepository
	mailer    Mailer
	settings  *SettingsWatcher
	now       func() time.Time
}

// NewReportScheduler creates a report scheduler. The cron runner supports
// second-level fields to match the rest of the scheduling in this codebase.
func NewReportScheduler(downloads repository.DownloadRepository, mailer Mailer, settings *SettingsWatcher) *ReportScheduler {
	return &ReportScheduler{
		cron:      cron.New(cron.WithSeconds()),
		downloads: downloads,
		mailer:    mailer,
		settings:  settings,
		now:       time.Now,
	}
}

// Start registers the report jobs and starts the cron runner
func (s *ReportScheduler) Start() error {
	jobs := map[string]string{
		"daily":   scheduleDaily,
		"weekly":  scheduleWeekly,
		"monthly": scheduleMonthly,
	}
	for period, spec := range jobs {
		period := period
		if _, err := s.cron.AddFunc(spec, func() { s.run(period) }); err != nil {
			return fmt.Errorf("register %s report: %w", period, err)
		}
	}
	s.cron.Start()
	log.Info().Msg("Report scheduler started")
	return nil
}

// Stop stops the cron runner and waits for running jobs
func (s *ReportScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *ReportScheduler) run(period string) {
	opts := s.settings.Current().Notifications
	if opts.Schedule != period || opts.Email == "" {
		return
	}

	from, to := reportPeriod(period, s.now())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := s.downloads.ListBetween(ctx, from, to)
	if err != nil {
		log.Error().Err(err).Str("period", period).Msg("Report query failed")
		return
	}
	if len(records) == 0 {
		log.Debug().Str("period", period).Msg("No downloads in period, skipping report")
		return
	}

	subject := fmt.Sprintf("Download Report (%s): %s to %s",
		period, ReportDate(from), ReportDate(to.Add(-time.Second)))
	body := fmt.Sprintf("<p>Attached is the %s download report covering %s through %s. "+
		"It contains %d download(s).</p>",
		period, ReportDate(from), ReportDate(to.Add(-time.Second)), len(records))

	attachment := Attachment{
		Name:        fmt.Sprintf("downloads-%s-%s.csv", period, ReportDate(from)),
		ContentType: "text/csv",
		Content:     BuildDownloadsCSV(records),
	}

	if err := s.mailer.Send(opts.Email, subject, body, []Attachment{attachment}); err != nil {
		log.Error().Err(err).Str("period", period).Msg("Report mail failed")
		return
	}
	log.Info().Str("period", period).Int("records", len(records)).Msg("Report sent")
}

// reportPeriod returns the half-open [from, to) range covered by a report
// firing at now: the previous full day, Monday-to-Sunday week, or month.
func reportPeriod(period string, now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case "weekly":
		// Monday of the current week, then back one week.
		offset := (int(today.Weekday()) + 6) % 7
		thisMonday := today.AddDate(0, 0, -offset)
		return thisMonday.AddDate(0, 0, -7), thisMonday
	case "monthly":
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return firstOfMonth.AddDate(0, -1, 0), firstOfMonth
	default:
		return today.AddDate(0, 0, -1), today
	}
}

// csvHeader matches the admin export column order
var csvHeader = []string{"ID", "Title", "File Name", "Email", "Name", "Phone", "Downloaded At", "IP", "URL"}

// BuildDownloadsCSV renders download records as a CSV document
func BuildDownloadsCSV(records []*models.DownloadRecord) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write(csvHeader)
	for _, rec := range records {
		w.Write([]string{
			strconv.FormatInt(rec.ID, 10),
			rec.PostTitle,
			rec.FileName,
			rec.Email,
			rec.Name,
			rec.Phone,
			rec.DownloadedAt.Format("2006-01-02 15:04:05"),
			rec.IP,
			rec.URL,
		})
	}
	w.Flush()
	return buf.Bytes()
}
