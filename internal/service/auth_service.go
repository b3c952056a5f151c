package service

import (
	"context"
	"errors"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/pkg/supabase"
)

// ErrRegistrationRejected is returned when the identity provider refuses a signup.
var ErrRegistrationRejected = errors.New("registration rejected")

// IdentityProvider は外部の認証基盤（Supabase Auth）を抽象化するインターフェース
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.User, error)
	SignUp(ctx context.Context, email, password string) error
}

var _ IdentityProvider = (*supabase.Client)(nil)

// AuthService は認証に関するビジネスロジックのインターフェース
type AuthService interface {
	// Login checks credentials with the identity provider, records the user
	// and opens a non-admin session.
	Login(ctx context.Context, email, password string) (*model.Session, *model.User, error)
	Register(ctx context.Context, email, password string) error
	Logout(ctx context.Context, token string) error
	// VerifyAdmin promotes the session when secret matches the configured
	// admin secret. A mismatch reports false and leaves the session untouched.
	VerifyAdmin(ctx context.Context, token, secret string) (bool, error)
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
}
