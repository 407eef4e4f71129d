package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	models "document-downloader/api/internal/model"
)

type downloadRepo struct {
	db *sqlx.DB
}

// NewDownloadRepository creates a new download log repository
func NewDownloadRepository(db *sqlx.DB) DownloadRepository {
	return &downloadRepo{db: db}
}

// EnsureSchema creates the downloads table if missing. Kept idempotent so the
// server can start against an empty database.
func (r *downloadRepo) EnsureSchema(ctx context.Context) error {
	schema := `CREATE TABLE IF NOT EXISTS downloads (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		post_title VARCHAR(255) NULL,
		file_name VARCHAR(255) NOT NULL,
		email VARCHAR(190) NULL,
		name VARCHAR(255) NULL,
		phone VARCHAR(50) NULL,
		downloaded_at DATETIME NOT NULL,
		ip VARCHAR(45) NULL,
		url TEXT NULL,
		PRIMARY KEY (id),
		KEY email_idx (email(100)),
		KEY date_idx (downloaded_at)
	) DEFAULT CHARSET=utf8mb4`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure downloads schema: %w", err)
	}
	return nil
}

func (r *downloadRepo) Insert(ctx context.Context, rec *models.DownloadRecord) error {
	if strings.TrimSpace(rec.FileName) == "" {
		return ErrInvalidInput
	}
	if rec.DownloadedAt.IsZero() {
		rec.DownloadedAt = time.Now()
	}

	query := `INSERT INTO downloads (post_title, file_name, email, name, phone, downloaded_at, ip, url)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		rec.PostTitle, rec.FileName, rec.Email, rec.Name, rec.Phone, rec.DownloadedAt, rec.IP, rec.URL)
	if err != nil {
		return fmt.Errorf("insert download: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

func (r *downloadRepo) buildWhereClause(filter DownloadFilter) (string, []interface{}) {
	whereClauses := []string{}
	args := []interface{}{}

	if filter.FileName != "" {
		whereClauses = append(whereClauses, "file_name LIKE ?")
		args = append(args, wildcardToLike(filter.FileName))
	}
	if filter.Email != "" {
		whereClauses = append(whereClauses, "email LIKE ?")
		args = append(args, wildcardToLike(filter.Email))
	}
	if filter.DateFrom != nil {
		whereClauses = append(whereClauses, "downloaded_at >= ?")
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		whereClauses = append(whereClauses, "downloaded_at < ?")
		args = append(args, *filter.DateTo)
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	return whereClause, args
}

const downloadColumns = "id, post_title, file_name, email, name, phone, downloaded_at, ip, url"

func (r *downloadRepo) List(ctx context.Context, filter DownloadFilter) ([]*models.DownloadRecord, int64, error) {
	whereClause, args := r.buildWhereClause(filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM downloads %s", whereClause)
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count downloads: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM downloads %s ORDER BY downloaded_at ASC", downloadColumns, whereClause)
	if filter.Pagination != nil {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Pagination.PageSize, filter.Pagination.Offset)
	}

	var records []*models.DownloadRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list downloads: %w", err)
	}

	return records, total, nil
}

func (r *downloadRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*models.DownloadRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM downloads
	          WHERE downloaded_at >= ? AND downloaded_at < ?
	          ORDER BY downloaded_at ASC`, downloadColumns)

	var records []*models.DownloadRecord
	if err := r.db.SelectContext(ctx, &records, query, from, to); err != nil {
		return nil, fmt.Errorf("list downloads between: %w", err)
	}

	return records, nil
}
