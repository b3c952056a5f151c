package repository

import (
	"context"

	"github.com/SnoopySong/nexaweb/internal/model"
)

// SessionRepository handles persistence for login sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	// FindByToken returns nil when no session has the token.
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	// SetAdmin reports false when no session has the token.
	SetAdmin(ctx context.Context, token string, isAdmin bool) (bool, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
