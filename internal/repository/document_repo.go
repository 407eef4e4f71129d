package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	models "document-downloader/api/internal/model"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepo{db: db}
}

const documentColumns = "d.id, d.title, d.file_url, d.file_ext, d.status, d.created_at, d.updated_at"

func (r *documentRepo) Search(ctx context.Context, filter DocumentFilter) ([]*models.Document, error) {
	whereClauses := []string{"d.status = 1"}
	args := []interface{}{}

	join := ""
	if len(filter.TaxonomySlugs) > 0 {
		join = `JOIN document_type_rel rel ON rel.document_id = d.id
		        JOIN document_types t ON t.id = rel.type_id`
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.TaxonomySlugs)), ",")
		whereClauses = append(whereClauses, fmt.Sprintf("t.slug IN (%s)", placeholders))
		for _, slug := range filter.TaxonomySlugs {
			args = append(args, slug)
		}
	}
	if filter.TitleLike != "" {
		whereClauses = append(whereClauses, "d.title LIKE ?")
		args = append(args, "%"+filter.TitleLike+"%")
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT %s
		FROM documents d %s
		WHERE %s
		ORDER BY d.title ASC
	`, documentColumns, join, strings.Join(whereClauses, " AND "))

	var docs []*models.Document
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	return docs, nil
}

func (r *documentRepo) GetByID(ctx context.Context, id int) (*models.Document, error) {
	query := fmt.Sprintf("SELECT %s FROM documents d WHERE d.id = ? AND d.status = 1", documentColumns)

	var doc models.Document
	err := r.db.GetContext(ctx, &doc, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document by id: %w", err)
	}

	return &doc, nil
}

func (r *documentRepo) TaxonomySlugs(ctx context.Context) ([]string, error) {
	var slugs []string
	if err := r.db.SelectContext(ctx, &slugs, "SELECT slug FROM document_types ORDER BY slug ASC"); err != nil {
		return nil, fmt.Errorf("list taxonomy slugs: %w", err)
	}
	return slugs, nil
}
