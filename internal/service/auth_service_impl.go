package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/internal/repository"
	"github.com/SnoopySong/nexaweb/pkg/supabase"
)

// AuthServiceImpl は AuthService の実装
type AuthServiceImpl struct {
	idp         IdentityProvider
	users       repository.UserRepository
	sessions    *SessionService
	adminSecret string
}

// NewAuthService は AuthServiceImpl を生成する。adminSecret が空の場合、管理者昇格は常に失敗する
func NewAuthService(idp IdentityProvider, users repository.UserRepository, sessions *SessionService, adminSecret string) AuthService {
	return &AuthServiceImpl{idp: idp, users: users, sessions: sessions, adminSecret: adminSecret}
}

func mapIdentityError(err error) error {
	switch {
	case errors.Is(err, supabase.ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, supabase.ErrNotConfigured):
		return ErrIdentityUnavailable
	}
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return fmt.Errorf("%w: %s", ErrRegistrationRejected, apiErr.Message)
	}
	return fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	idUser, err := s.idp.SignInWithPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidCredentials) {
			slog.Info("login refused", "email", email)
			return nil, nil, ErrInvalidCredentials
		}
		slog.Error("identity provider sign-in failed", "error", err)
		return nil, nil, mapIdentityError(err)
	}

	u := &model.User{
		ID:              idUser.ID,
		Email:           idUser.Email,
		FirstName:       idUser.MetadataString("first_name"),
		LastName:        idUser.MetadataString("last_name"),
		ProfileImageURL: idUser.MetadataString("avatar_url"),
	}
	if u.Email == "" {
		u.Email = email
	}
	if err := s.users.UpsertUser(ctx, u); err != nil {
		return nil, nil, fmt.Errorf("upsert user: %w", err)
	}

	session, err := s.sessions.CreateSession(ctx, u.ID, u.Email)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("user logged in", "user_id", u.ID)
	return session, u, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) error {
	if err := s.idp.SignUp(ctx, email, password); err != nil {
		slog.Warn("identity provider sign-up failed", "error", err)
		return mapIdentityError(err)
	}
	return nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

func (s *AuthServiceImpl) VerifyAdmin(ctx context.Context, token, secret string) (bool, error) {
	if s.adminSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(s.adminSecret)) != 1 {
		return false, nil
	}
	if err := s.sessions.Promote(ctx, token); err != nil {
		return false, err
	}
	slog.Info("session promoted to admin")
	return true, nil
}

func (s *AuthServiceImpl) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return s.users.FindUserByID(ctx, userID)
}
