package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/internal/service"
	"github.com/SnoopySong/nexaweb/pkg/auth"
)

var testSecret = auth.SessionSecretBytes("handler-test-secret")

func newTestAuthHandler(svc service.AuthService) *AuthHandler {
	return NewAuthHandler(svc, AuthConfig{SessionSecret: testSecret, SessionTTL: time.Hour})
}

func TestAuthHandler_Login_SetsSignedCookie(t *testing.T) {
	h := newTestAuthHandler(&mockAuthService{
		loginFunc: func(_ context.Context, email, _ string) (*model.Session, *model.User, error) {
			return &model.Session{Token: "tok-abc", UserID: "u-1"}, &model.User{ID: "u-1", Email: email}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@example.com","password":"secret123"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != auth.SessionCookieName() {
		t.Fatalf("expected session cookie, got %v", cookies)
	}
	token, err := auth.VerifySignedToken(cookies[0].Value, testSecret)
	if err != nil || token != "tok-abc" {
		t.Errorf("cookie does not carry the signed token: %q, %v", token, err)
	}
	if cookies[0].MaxAge != 3600 || !cookies[0].HttpOnly {
		t.Errorf("unexpected cookie attributes %+v", cookies[0])
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"refused", `{"email":"a@example.com","password":"secret123"}`, service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"provider down", `{"email":"a@example.com","password":"secret123"}`, fmt.Errorf("%w: timeout", service.ErrIdentityUnavailable), http.StatusServiceUnavailable},
		{"bad email", `{"email":"nope","password":"secret123"}`, nil, http.StatusBadRequest},
		{"missing password", `{"email":"a@example.com"}`, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAuthHandler(&mockAuthService{
				loginFunc: func(_ context.Context, _, _ string) (*model.Session, *model.User, error) {
					return nil, nil, tt.err
				},
			})
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body)))

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if len(rec.Result().Cookies()) != 0 {
				t.Error("no cookie must be set on failure")
			}
		})
	}
}

func TestAuthHandler_Register_Rejected(t *testing.T) {
	h := newTestAuthHandler(&mockAuthService{
		registerFunc: func(_ context.Context, _, _ string) error {
			return fmt.Errorf("%w: %s", service.ErrRegistrationRejected, "User already registered")
		},
	})
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":"a@example.com","password":"secret123"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["message"] != "User already registered" {
		t.Errorf("unexpected message %q", resp["message"])
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	var deleted string
	h := newTestAuthHandler(&mockAuthService{
		logoutFunc: func(_ context.Context, token string) error {
			deleted = token
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName(), Value: auth.SignToken("tok-1", testSecret)})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != "tok-1" {
		t.Errorf("expected tok-1 to be deleted, got %q", deleted)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected expired cookie, got %v", cookies)
	}
}

func TestAuthHandler_VerifyAdmin(t *testing.T) {
	h := newTestAuthHandler(&mockAuthService{
		verifyAdminFunc: func(_ context.Context, token, secret string) (bool, error) {
			return token == "tok-1" && secret == "snoopy", nil
		},
	})

	tests := []struct {
		body     string
		wantCode int
		want     bool
	}{
		{`{"secret":"snoopy"}`, http.StatusOK, true},
		{`{"secret":"wrong"}`, http.StatusForbidden, false},
	}
	for _, tt := range tests {
		req := withPrincipal(httptest.NewRequest(http.MethodPost, "/api/auth/verify-admin", strings.NewReader(tt.body)), false)
		rec := httptest.NewRecorder()
		h.VerifyAdmin(rec, req)

		if rec.Code != tt.wantCode {
			t.Errorf("%s: expected %d, got %d", tt.body, tt.wantCode, rec.Code)
		}
		var resp adminStatusResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.IsAdmin != tt.want {
			t.Errorf("%s: expected isAdmin=%v", tt.body, tt.want)
		}
	}
}

func TestAuthHandler_AdminStatus(t *testing.T) {
	h := newTestAuthHandler(&mockAuthService{})
	for _, isAdmin := range []bool{true, false} {
		rec := httptest.NewRecorder()
		h.AdminStatus(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/api/auth/admin-status", nil), isAdmin))

		var resp adminStatusResponse
		_ = json.NewDecoder(rec.Body).Decode(&resp)
		if resp.IsAdmin != isAdmin {
			t.Errorf("expected isAdmin=%v, got %v", isAdmin, resp.IsAdmin)
		}
	}
}

func TestAuthHandler_User(t *testing.T) {
	h := newTestAuthHandler(&mockAuthService{
		currentUserFunc: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "admin@example.com"}, nil
		},
	})
	rec := httptest.NewRecorder()
	h.User(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/api/auth/user", nil), false))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var u model.User
	_ = json.NewDecoder(rec.Body).Decode(&u)
	if u.ID != "user-1" {
		t.Errorf("expected user-1, got %q", u.ID)
	}
}
