package repository

import (
	"context"
	"errors"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgMessageRepository is the PostgreSQL implementation of MessageRepository.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPgMessageRepository creates a PgMessageRepository backed by the given pool.
func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ MessageRepository = (*PgMessageRepository)(nil)

const messageColumns = `id, name, email, phone, budget, project_type, message, is_read, created_at`

func scanMessage(row pgx.Row) (*model.Message, error) {
	var m model.Message
	if err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Budget, &m.ProjectType,
		&m.Message, &m.IsRead, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMessage inserts a new message. id, is_read and created_at come from
// column defaults, never from the caller.
func (r *PgMessageRepository) CreateMessage(ctx context.Context, msg model.NewMessage) (*model.Message, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO messages (name, email, phone, budget, project_type, message)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+messageColumns,
		msg.Name, msg.Email, msg.Phone, msg.Budget, msg.ProjectType, msg.Message,
	)
	m, err := scanMessage(row)
	if err != nil {
		return nil, classifyPgError(err)
	}
	return m, nil
}

// ListMessages returns all messages, newest first.
func (r *PgMessageRepository) ListMessages(ctx context.Context) ([]*model.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// GetMessage returns the message with the given id, or nil.
func (r *PgMessageRepository) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	m, err := scanMessage(r.pool.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// MarkMessageRead sets is_read. Already-read messages stay read.
func (r *PgMessageRepository) MarkMessageRead(ctx context.Context, id string) (*model.Message, error) {
	m, err := scanMessage(r.pool.QueryRow(ctx,
		`UPDATE messages SET is_read = TRUE WHERE id = $1 RETURNING `+messageColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// DeleteMessage removes a message; message_tags rows go with it via ON DELETE CASCADE.
func (r *PgMessageRepository) DeleteMessage(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
