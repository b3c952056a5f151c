package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/internal/repository"
	"github.com/SnoopySong/nexaweb/pkg/auth"
)

// SessionService manages DB-backed login sessions.
// Implements auth.SessionValidator.
type SessionService struct {
	repo repository.SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionService creates a SessionService. A non-positive ttl falls back to auth.SessionDuration.
func NewSessionService(repo repository.SessionRepository, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = auth.SessionDuration
	}
	return &SessionService{repo: repo, ttl: ttl, now: time.Now}
}

// TTL is the lifetime of newly created sessions.
func (s *SessionService) TTL() time.Duration { return s.ttl }

// CreateSession generates a new opaque token, stores it, and returns the session.
// New sessions are never admin.
func (s *SessionService) CreateSession(ctx context.Context, userID, email string) (*model.Session, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.Error("session token generation failed", "error", err)
		return nil, err
	}
	now := s.now()
	session := &model.Session{
		Token:     token,
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		slog.Error("session insert failed", "user_id", userID, "error", err)
		return nil, err
	}
	slog.Debug("session created", "user_id", userID, "expires_at", session.ExpiresAt)
	return session, nil
}

// ValidateSession resolves a token into the caller's principal.
// Expired sessions are deleted on sight.
func (s *SessionService) ValidateSession(ctx context.Context, token string) (*auth.Principal, error) {
	session, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidSession
	}
	if session.Expired(s.now()) {
		if err := s.repo.DeleteByToken(ctx, token); err != nil {
			slog.Warn("expired session delete failed", "error", err)
		}
		return nil, ErrInvalidSession
	}
	return &auth.Principal{
		Token:   session.Token,
		UserID:  session.UserID,
		Email:   session.Email,
		IsAdmin: session.IsAdmin,
	}, nil
}

// Promote sets the admin flag on the session.
func (s *SessionService) Promote(ctx context.Context, token string) error {
	ok, err := s.repo.SetAdmin(ctx, token, true)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidSession
	}
	return nil
}

// DeleteSession removes a session (logout).
func (s *SessionService) DeleteSession(ctx context.Context, token string) error {
	return s.repo.DeleteByToken(ctx, token)
}

// PurgeExpired removes every expired session and returns how many were deleted.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}
