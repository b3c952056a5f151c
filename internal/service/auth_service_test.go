package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/pkg/supabase"
)

func newTestAuthService(idp IdentityProvider, users *mockUserRepository, sessions *mockSessionRepository, secret string) AuthService {
	return NewAuthService(idp, users, NewSessionService(sessions, time.Hour), secret)
}

func TestAuthService_Login_Success(t *testing.T) {
	var upserted *model.User
	var storedSession *model.Session
	idp := &mockIdentityProvider{
		signInFunc: func(_ context.Context, email, password string) (*supabase.User, error) {
			if email != "admin@example.com" || password != "pw" {
				t.Errorf("unexpected credentials %q/%q", email, password)
			}
			return &supabase.User{
				ID:           "sb-1",
				Email:        "admin@example.com",
				UserMetadata: map[string]any{"first_name": "Ada"},
			}, nil
		},
	}
	users := &mockUserRepository{upsertFunc: func(_ context.Context, u *model.User) error {
		upserted = u
		return nil
	}}
	sessions := &mockSessionRepository{createFunc: func(_ context.Context, s *model.Session) error {
		storedSession = s
		return nil
	}}
	svc := newTestAuthService(idp, users, sessions, "secret")

	session, user, err := svc.Login(context.Background(), "admin@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upserted == nil || upserted.ID != "sb-1" {
		t.Fatalf("expected user sb-1 to be upserted, got %+v", upserted)
	}
	if upserted.FirstName == nil || *upserted.FirstName != "Ada" {
		t.Errorf("expected first name from metadata, got %v", upserted.FirstName)
	}
	if user.ID != "sb-1" {
		t.Errorf("expected sb-1, got %q", user.ID)
	}
	if storedSession == nil || storedSession.UserID != "sb-1" || session.IsAdmin {
		t.Errorf("expected non-admin session for sb-1, got %+v", storedSession)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	created := false
	sessions := &mockSessionRepository{createFunc: func(_ context.Context, _ *model.Session) error {
		created = true
		return nil
	}}
	svc := newTestAuthService(&mockIdentityProvider{}, &mockUserRepository{}, sessions, "secret")

	_, _, err := svc.Login(context.Background(), "x@example.com", "bad")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if created {
		t.Error("no session must be created on refused login")
	}
}

func TestAuthService_Login_NotConfigured(t *testing.T) {
	idp := &mockIdentityProvider{signInFunc: func(_ context.Context, _, _ string) (*supabase.User, error) {
		return nil, supabase.ErrNotConfigured
	}}
	svc := newTestAuthService(idp, &mockUserRepository{}, &mockSessionRepository{}, "secret")

	_, _, err := svc.Login(context.Background(), "x@example.com", "pw")
	if !errors.Is(err, ErrIdentityUnavailable) {
		t.Fatalf("expected ErrIdentityUnavailable, got %v", err)
	}
}

func TestAuthService_Register_Rejected(t *testing.T) {
	idp := &mockIdentityProvider{signUpFunc: func(_ context.Context, _, _ string) error {
		return &supabase.APIError{StatusCode: 422, Message: "User already registered"}
	}}
	svc := newTestAuthService(idp, &mockUserRepository{}, &mockSessionRepository{}, "secret")

	err := svc.Register(context.Background(), "x@example.com", "pw123456")
	if !errors.Is(err, ErrRegistrationRejected) {
		t.Fatalf("expected ErrRegistrationRejected, got %v", err)
	}
}

func TestAuthService_VerifyAdmin(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		given      string
		want       bool
	}{
		{"correct secret", "snoopy", "snoopy", true},
		{"wrong secret", "snoopy", "snoop", false},
		{"empty given", "snoopy", "", false},
		{"promotion disabled", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promoted := false
			sessions := &mockSessionRepository{setAdminFunc: func(_ context.Context, _ string, isAdmin bool) (bool, error) {
				promoted = isAdmin
				return true, nil
			}}
			svc := newTestAuthService(&mockIdentityProvider{}, &mockUserRepository{}, sessions, tt.configured)

			ok, err := svc.VerifyAdmin(context.Background(), "tok", tt.given)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want {
				t.Errorf("expected %v, got %v", tt.want, ok)
			}
			if promoted != tt.want {
				t.Errorf("expected promoted=%v, got %v", tt.want, promoted)
			}
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	var deleted string
	sessions := &mockSessionRepository{deleteByTokenFunc: func(_ context.Context, token string) error {
		deleted = token
		return nil
	}}
	svc := newTestAuthService(&mockIdentityProvider{}, &mockUserRepository{}, sessions, "secret")

	if err := svc.Logout(context.Background(), "tok-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "tok-9" {
		t.Errorf("expected tok-9, got %q", deleted)
	}
}
