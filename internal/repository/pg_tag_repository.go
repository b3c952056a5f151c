package repository

import (
	"context"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgTagRepository は TagRepository の PostgreSQL 実装
type PgTagRepository struct {
	pool *pgxpool.Pool
}

// NewPgTagRepository は PgTagRepository を生成する
func NewPgTagRepository(pool *pgxpool.Pool) *PgTagRepository {
	return &PgTagRepository{pool: pool}
}

var _ TagRepository = (*PgTagRepository)(nil)

func collectTags(rows pgx.Rows) ([]*model.Tag, error) {
	defer rows.Close()
	var tags []*model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

// ListTags returns all tags ordered by name.
func (r *PgTagRepository) ListTags(ctx context.Context) ([]*model.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, color, created_at FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return collectTags(rows)
}

// CreateTag inserts a tag. A taken name yields ErrDuplicate.
func (r *PgTagRepository) CreateTag(ctx context.Context, name, color string) (*model.Tag, error) {
	t := &model.Tag{Name: name, Color: color}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tags (name, color) VALUES ($1, $2) RETURNING id, created_at`,
		name, color,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, classifyPgError(err)
	}
	return t, nil
}

// DeleteTag removes a tag and, by cascade, all of its message associations.
func (r *PgTagRepository) DeleteTag(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// GetMessageTags returns the tags attached to one message.
func (r *PgTagRepository) GetMessageTags(ctx context.Context, messageID string) ([]*model.Tag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.name, t.color, t.created_at
		 FROM message_tags mt
		 INNER JOIN tags t ON t.id = mt.tag_id
		 WHERE mt.message_id = $1
		 ORDER BY t.name ASC`,
		messageID,
	)
	if err != nil {
		return nil, err
	}
	return collectTags(rows)
}

// TagsByMessage returns the whole association table in one query.
func (r *PgTagRepository) TagsByMessage(ctx context.Context) (map[string][]*model.Tag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT mt.message_id, t.id, t.name, t.color, t.created_at
		 FROM message_tags mt
		 INNER JOIN tags t ON t.id = mt.tag_id
		 ORDER BY mt.message_id, t.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]*model.Tag)
	for rows.Next() {
		var messageID string
		var t model.Tag
		if err := rows.Scan(&messageID, &t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		out[messageID] = append(out[messageID], &t)
	}
	return out, rows.Err()
}

// AddTagToMessage はタグを付与する（冪等: 既に存在する場合は無視）
func (r *PgTagRepository) AddTagToMessage(ctx context.Context, messageID, tagID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO message_tags (message_id, tag_id)
		 VALUES ($1, $2)
		 ON CONFLICT (message_id, tag_id) DO NOTHING`,
		messageID, tagID,
	)
	return classifyPgError(err)
}

// RemoveTagFromMessage はタグを外す（冪等: 存在しない場合は無視）
func (r *PgTagRepository) RemoveTagFromMessage(ctx context.Context, messageID, tagID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM message_tags WHERE message_id = $1 AND tag_id = $2`,
		messageID, tagID,
	)
	return err
}
