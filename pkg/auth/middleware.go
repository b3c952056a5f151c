package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated caller attached to a request.
type Principal struct {
	Token   string
	UserID  string
	Email   string
	IsAdmin bool
}

// SessionValidator resolves a session token into a principal.
// It returns an error for unknown or expired sessions.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*Principal, error)
}

// WithPrincipal は context に Principal をセットする
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext は context から Principal を取得する
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// IsAdminFromContext returns whether the caller's session carries the admin flag.
// Returns false when no principal is set.
func IsAdminFromContext(ctx context.Context) bool {
	p, ok := PrincipalFromContext(ctx)
	return ok && p.IsAdmin
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// RequireAuth は認証必須ミドルウェア。セッションを検証し、Principal を context にセットする
func RequireAuth(sv SessionValidator, secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := TokenFromRequest(r, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			p, err := sv.ValidateSession(r.Context(), token)
			if err != nil {
				slog.Debug("session rejected", "error", err)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin rejects callers whose session is not flagged admin.
// It must run inside RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !IsAdminFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
