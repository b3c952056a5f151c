package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore is the embedded implementation of Store, used for local
// development and for tests. It enforces the same constraints as the
// PostgreSQL schema: unique tag names, unique (message, tag) pairs and
// cascading deletes on message_tags.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// SQLiteOption configures an SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithClock overrides the clock used for server-assigned timestamps and
// analytics windows.
func WithClock(now func() time.Time) SQLiteOption {
	return func(s *SQLiteStore) { s.now = now }
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database file at path and applies the schema.
func OpenSQLite(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps writes serialized and pragmas in effect.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Ping checks the connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

// Sessions returns the store itself; it also implements SessionRepository.
func (s *SQLiteStore) Sessions() SessionRepository {
	return sqliteSessions{s}
}

func (s *SQLiteStore) stamp() int64 {
	return s.now().UnixNano()
}

func fromStamp(n int64) time.Time {
	return time.Unix(0, n)
}

// classifySQLiteError maps constraint violations onto the package sentinels.
func classifySQLiteError(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}
	msg := se.Error()
	switch {
	case strings.Contains(msg, "UNIQUE"):
		return fmt.Errorf("%w: %s", ErrDuplicate, msg)
	case strings.Contains(msg, "FOREIGN KEY"):
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ---------------------------------------------------------------------------
// messages
// ---------------------------------------------------------------------------

func scanSQLiteMessage(row rowScanner) (*model.Message, error) {
	var m model.Message
	var created int64
	if err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Budget, &m.ProjectType,
		&m.Message, &m.IsRead, &created,
	); err != nil {
		return nil, err
	}
	m.CreatedAt = fromStamp(created)
	return &m, nil
}

func (s *SQLiteStore) CreateMessage(ctx context.Context, msg model.NewMessage) (*model.Message, error) {
	m, err := scanSQLiteMessage(s.db.QueryRowContext(ctx,
		`INSERT INTO messages (id, name, email, phone, budget, project_type, message, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
		 RETURNING `+messageColumns,
		uuid.NewString(), msg.Name, msg.Email, msg.Phone, msg.Budget, msg.ProjectType, msg.Message, s.stamp(),
	))
	if err != nil {
		return nil, classifySQLiteError(err)
	}
	return m, nil
}

func (s *SQLiteStore) ListMessages(ctx context.Context) ([]*model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		m, err := scanSQLiteMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *SQLiteStore) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	m, err := scanSQLiteMessage(s.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (s *SQLiteStore) MarkMessageRead(ctx context.Context, id string) (*model.Message, error) {
	m, err := scanSQLiteMessage(s.db.QueryRowContext(ctx,
		`UPDATE messages SET is_read = 1 WHERE id = ? RETURNING `+messageColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (s *SQLiteStore) DeleteMessage(ctx context.Context, id string) (bool, error) {
	return s.execAffected(ctx, `DELETE FROM messages WHERE id = ?`, id)
}

func (s *SQLiteStore) execAffected(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ---------------------------------------------------------------------------
// tags
// ---------------------------------------------------------------------------

func scanSQLiteTag(row rowScanner) (*model.Tag, error) {
	var t model.Tag
	var created int64
	if err := row.Scan(&t.ID, &t.Name, &t.Color, &created); err != nil {
		return nil, err
	}
	t.CreatedAt = fromStamp(created)
	return &t, nil
}

func (s *SQLiteStore) queryTags(ctx context.Context, query string, args ...any) ([]*model.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		t, err := scanSQLiteTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *SQLiteStore) ListTags(ctx context.Context) ([]*model.Tag, error) {
	return s.queryTags(ctx, `SELECT id, name, color, created_at FROM tags ORDER BY name ASC`)
}

func (s *SQLiteStore) CreateTag(ctx context.Context, name, color string) (*model.Tag, error) {
	t, err := scanSQLiteTag(s.db.QueryRowContext(ctx,
		`INSERT INTO tags (id, name, color, created_at) VALUES (?, ?, ?, ?)
		 RETURNING id, name, color, created_at`,
		uuid.NewString(), name, color, s.stamp(),
	))
	if err != nil {
		return nil, classifySQLiteError(err)
	}
	return t, nil
}

func (s *SQLiteStore) DeleteTag(ctx context.Context, id string) (bool, error) {
	return s.execAffected(ctx, `DELETE FROM tags WHERE id = ?`, id)
}

func (s *SQLiteStore) GetMessageTags(ctx context.Context, messageID string) ([]*model.Tag, error) {
	return s.queryTags(ctx,
		`SELECT t.id, t.name, t.color, t.created_at
		 FROM message_tags mt
		 INNER JOIN tags t ON t.id = mt.tag_id
		 WHERE mt.message_id = ?
		 ORDER BY t.name ASC`,
		messageID,
	)
}

func (s *SQLiteStore) TagsByMessage(ctx context.Context) (map[string][]*model.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
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
		var created int64
		if err := rows.Scan(&messageID, &t.ID, &t.Name, &t.Color, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = fromStamp(created)
		out[messageID] = append(out[messageID], &t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddTagToMessage(ctx context.Context, messageID, tagID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO message_tags (id, message_id, tag_id) VALUES (?, ?, ?)
		 ON CONFLICT (message_id, tag_id) DO NOTHING`,
		uuid.NewString(), messageID, tagID,
	)
	if err != nil {
		return classifySQLiteError(err)
	}
	return nil
}

func (s *SQLiteStore) RemoveTagFromMessage(ctx context.Context, messageID, tagID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM message_tags WHERE message_id = ? AND tag_id = ?`, messageID, tagID)
	return err
}

// ---------------------------------------------------------------------------
// templates
// ---------------------------------------------------------------------------

func scanSQLiteTemplate(row rowScanner) (*model.Template, error) {
	var t model.Template
	var created int64
	if err := row.Scan(&t.ID, &t.Name, &t.Subject, &t.Content, &created); err != nil {
		return nil, err
	}
	t.CreatedAt = fromStamp(created)
	return &t, nil
}

func (s *SQLiteStore) ListTemplates(ctx context.Context) ([]*model.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*model.Template
	for rows.Next() {
		t, err := scanSQLiteTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (s *SQLiteStore) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	t, err := scanSQLiteTemplate(s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (s *SQLiteStore) CreateTemplate(ctx context.Context, name, subject, content string) (*model.Template, error) {
	return scanSQLiteTemplate(s.db.QueryRowContext(ctx,
		`INSERT INTO templates (id, name, subject, content, created_at) VALUES (?, ?, ?, ?, ?)
		 RETURNING `+templateColumns,
		uuid.NewString(), name, subject, content, s.stamp(),
	))
}

func (s *SQLiteStore) UpdateTemplate(ctx context.Context, id string, patch model.TemplatePatch) (*model.Template, error) {
	t, err := scanSQLiteTemplate(s.db.QueryRowContext(ctx,
		`UPDATE templates SET
		   name    = COALESCE(?, name),
		   subject = COALESCE(?, subject),
		   content = COALESCE(?, content)
		 WHERE id = ?
		 RETURNING `+templateColumns,
		patch.Name, patch.Subject, patch.Content, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (s *SQLiteStore) DeleteTemplate(ctx context.Context, id string) (bool, error) {
	return s.execAffected(ctx, `DELETE FROM templates WHERE id = ?`, id)
}

// ---------------------------------------------------------------------------
// page views
// ---------------------------------------------------------------------------

func (s *SQLiteStore) RecordPageView(ctx context.Context, path string, userAgent, referrer *string) (*model.PageView, error) {
	now := s.now()
	v := &model.PageView{
		ID:        uuid.NewString(),
		Path:      path,
		UserAgent: userAgent,
		Referrer:  referrer,
		CreatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO page_views (id, path, user_agent, referrer, created_at) VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.Path, v.UserAgent, v.Referrer, now.UnixNano(),
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *SQLiteStore) GetPageViewStats(ctx context.Context, windowDays int) (*model.PageViewStats, error) {
	w := model.WindowsAt(s.now(), windowDays)
	today, week, month := w.Today.UnixNano(), w.Week.UnixNano(), w.Month.UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stats := &model.PageViewStats{ByPath: []model.PathCount{}}
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE created_at >= ?),
		        COUNT(*) FILTER (WHERE created_at >= ?),
		        COUNT(*) FILTER (WHERE created_at >= ?)
		 FROM page_views`,
		today, week, month,
	).Scan(&stats.Total, &stats.Today, &stats.ThisWeek, &stats.ThisMonth)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT path, COUNT(*) AS views
		 FROM page_views
		 WHERE created_at >= ?
		 GROUP BY path
		 ORDER BY views DESC, path ASC`,
		month,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var pc model.PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, err
		}
		stats.ByPath = append(stats.ByPath, pc)
	}
	return stats, rows.Err()
}

// ---------------------------------------------------------------------------
// users
// ---------------------------------------------------------------------------

func (s *SQLiteStore) UpsertUser(ctx context.Context, user *model.User) error {
	now := s.stamp()
	var created, updated int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   email = excluded.email,
		   first_name = COALESCE(excluded.first_name, users.first_name),
		   last_name = COALESCE(excluded.last_name, users.last_name),
		   profile_image_url = COALESCE(excluded.profile_image_url, users.profile_image_url),
		   updated_at = excluded.updated_at
		 RETURNING created_at, updated_at`,
		user.ID, user.Email, user.FirstName, user.LastName, user.ProfileImageURL, now, now,
	).Scan(&created, &updated)
	if err != nil {
		return classifySQLiteError(err)
	}
	user.CreatedAt = fromStamp(created)
	user.UpdatedAt = fromStamp(updated)
	return nil
}

func (s *SQLiteStore) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	var created, updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = fromStamp(created)
	u.UpdatedAt = fromStamp(updated)
	return &u, nil
}

// ---------------------------------------------------------------------------
// sessions
// ---------------------------------------------------------------------------

type sqliteSessions struct {
	s *SQLiteStore
}

func (r sqliteSessions) Create(ctx context.Context, sess *model.Session) error {
	_, err := r.s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, email, is_admin, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.Token, sess.UserID, sess.Email, sess.IsAdmin,
		sess.CreatedAt.UnixNano(), sess.ExpiresAt.UnixNano(),
	)
	return err
}

func (r sqliteSessions) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	sess := &model.Session{}
	var created, expires int64
	err := r.s.db.QueryRowContext(ctx,
		`SELECT token, user_id, email, is_admin, created_at, expires_at FROM sessions WHERE token = ?`,
		token,
	).Scan(&sess.Token, &sess.UserID, &sess.Email, &sess.IsAdmin, &created, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess.CreatedAt = fromStamp(created)
	sess.ExpiresAt = fromStamp(expires)
	return sess, nil
}

func (r sqliteSessions) SetAdmin(ctx context.Context, token string, isAdmin bool) (bool, error) {
	return r.s.execAffected(ctx, `UPDATE sessions SET is_admin = ? WHERE token = ?`, isAdmin, token)
}

func (r sqliteSessions) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func (r sqliteSessions) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, r.s.stamp())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
