package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore bundles the PostgreSQL repositories behind the Store interface.
type PgStore struct {
	*PgMessageRepository
	*PgTagRepository
	*PgTemplateRepository
	*PgPageViewRepository
	*PgUserRepository

	pool     *pgxpool.Pool
	sessions SessionRepository
}

// NewPgStore wires every PostgreSQL repository onto one pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{
		PgMessageRepository:  NewPgMessageRepository(pool),
		PgTagRepository:      NewPgTagRepository(pool),
		PgTemplateRepository: NewPgTemplateRepository(pool),
		PgPageViewRepository: NewPgPageViewRepository(pool),
		PgUserRepository:     NewPgUserRepository(pool),
		pool:                 pool,
		sessions:             NewPgSessionRepository(pool),
	}
}

var _ Store = (*PgStore)(nil)

// Ping は DB 接続を確認する（DB インターフェース実装）
func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Sessions returns the session repository sharing the store's pool.
func (s *PgStore) Sessions() SessionRepository {
	return s.sessions
}

// Close releases the pool.
func (s *PgStore) Close() {
	s.pool.Close()
}
