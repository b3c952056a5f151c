package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SnoopySong/nexaweb/internal/service"
	"github.com/SnoopySong/nexaweb/pkg/auth"
)

// AuthConfig は認証ハンドラの設定
type AuthConfig struct {
	SessionSecret []byte
	SessionTTL    time.Duration
	SecureCookies bool
}

// AuthHandler は認証関連のハンドラ（ログイン・登録・ログアウト・管理者昇格）
type AuthHandler struct {
	auth service.AuthService
	cfg  AuthConfig
}

// NewAuthHandler は AuthHandler を生成する
func NewAuthHandler(authService service.AuthService, cfg AuthConfig) *AuthHandler {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = auth.SessionDuration
	}
	return &AuthHandler{auth: authService, cfg: cfg}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	w.Header().Set("Content-Type", "application/json")

	session, user, err := h.auth.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_credentials"})
		return
	case errors.Is(err, service.ErrIdentityUnavailable):
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "identity_unavailable"})
		return
	case err != nil:
		slog.Error("login failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "login_failed"})
		return
	}

	auth.SetSessionCookie(w, session.Token, h.cfg.SessionSecret, h.cfg.SecureCookies, h.cfg.SessionTTL)
	_ = json.NewEncoder(w).Encode(user)
}

// Register handles POST /api/auth/register.
// The identity provider may require email confirmation before the first login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	w.Header().Set("Content-Type", "application/json")

	err := h.auth.Register(r.Context(), strings.TrimSpace(req.Email), req.Password)
	switch {
	case errors.Is(err, service.ErrRegistrationRejected):
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "registration_rejected",
			"message": strings.TrimPrefix(err.Error(), service.ErrRegistrationRejected.Error()+": "),
		})
		return
	case errors.Is(err, service.ErrIdentityUnavailable):
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "identity_unavailable"})
		return
	case err != nil:
		slog.Error("register failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "register_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Logout handles POST /api/auth/logout. It succeeds without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, err := auth.TokenFromRequest(r, h.cfg.SessionSecret); err == nil {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			slog.Error("logout: session delete failed", "error", err)
		}
	}
	auth.ClearSessionCookie(w, h.cfg.SecureCookies)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// User handles GET /api/auth/user.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}
	user, err := h.auth.CurrentUser(r.Context(), p.UserID)
	if err != nil {
		slog.Error("fetch current user failed", "user_id", p.UserID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "fetch_failed"})
		return
	}
	if user == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	_ = json.NewEncoder(w).Encode(user)
}

type verifyAdminRequest struct {
	Secret string `json:"secret"`
}

type adminStatusResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// VerifyAdmin handles POST /api/auth/verify-admin: the session becomes admin
// for its remaining lifetime when the secret matches.
func (h *AuthHandler) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	var req verifyAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	promoted, err := h.auth.VerifyAdmin(r.Context(), p.Token, req.Secret)
	if err != nil {
		slog.Error("admin promotion failed", "user_id", p.UserID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "verify_failed"})
		return
	}
	if !promoted {
		slog.Warn("admin promotion refused", "user_id", p.UserID)
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(adminStatusResponse{IsAdmin: false})
		return
	}
	_ = json.NewEncoder(w).Encode(adminStatusResponse{IsAdmin: true})
}

// AdminStatus handles GET /api/auth/admin-status.
func (h *AuthHandler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(adminStatusResponse{IsAdmin: auth.IsAdminFromContext(r.Context())})
}
