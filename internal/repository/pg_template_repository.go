package repository

import (
	"context"
	"errors"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgTemplateRepository is the PostgreSQL implementation of TemplateRepository.
type PgTemplateRepository struct {
	pool *pgxpool.Pool
}

// NewPgTemplateRepository creates a PgTemplateRepository backed by the given pool.
func NewPgTemplateRepository(pool *pgxpool.Pool) *PgTemplateRepository {
	return &PgTemplateRepository{pool: pool}
}

var _ TemplateRepository = (*PgTemplateRepository)(nil)

const templateColumns = `id, name, subject, content, created_at`

func scanTemplate(row pgx.Row) (*model.Template, error) {
	var t model.Template
	if err := row.Scan(&t.ID, &t.Name, &t.Subject, &t.Content, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgTemplateRepository) ListTemplates(ctx context.Context) ([]*model.Template, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+templateColumns+` FROM templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *PgTemplateRepository) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	t, err := scanTemplate(r.pool.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (r *PgTemplateRepository) CreateTemplate(ctx context.Context, name, subject, content string) (*model.Template, error) {
	return scanTemplate(r.pool.QueryRow(ctx,
		`INSERT INTO templates (name, subject, content) VALUES ($1, $2, $3)
		 RETURNING `+templateColumns,
		name, subject, content,
	))
}

// UpdateTemplate merges the non-nil patch fields into the row.
func (r *PgTemplateRepository) UpdateTemplate(ctx context.Context, id string, patch model.TemplatePatch) (*model.Template, error) {
	t, err := scanTemplate(r.pool.QueryRow(ctx,
		`UPDATE templates SET
		   name    = COALESCE($2, name),
		   subject = COALESCE($3, subject),
		   content = COALESCE($4, content)
		 WHERE id = $1
		 RETURNING `+templateColumns,
		id, patch.Name, patch.Subject, patch.Content,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (r *PgTemplateRepository) DeleteTemplate(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
