package handler

import (
	"net/http"
	"time"

	"github.com/SnoopySong/nexaweb/internal/repository"
	"github.com/SnoopySong/nexaweb/internal/service"
	"github.com/SnoopySong/nexaweb/pkg/auth"
)

// Services are the collaborators the router dispatches to.
type Services struct {
	Messages  service.MessageService
	Tags      service.TagService
	Templates service.TemplateService
	Analytics service.AnalyticsService
	Auth      service.AuthService
	Sessions  auth.SessionValidator
}

// RouterConfig carries the HTTP-level settings of the API.
type RouterConfig struct {
	FrontendURL   string
	SessionSecret []byte
	SessionTTL    time.Duration
	SecureCookies bool
	// ContactRateLimit is the per-IP requests/minute allowed on public intake; 0 disables it.
	ContactRateLimit int
	// TrustedProxies is the number of reverse proxies appending to X-Forwarded-For.
	TrustedProxies int
}

// NewRouter builds the complete API handler, middleware included.
//
// Guards: tag, template and CSV routes need a session; message listing and
// mutation, the tag map and analytics additionally need the session admin flag.
func NewRouter(db repository.DB, svc Services, cfg RouterConfig) http.Handler {
	h := New(db, cfg.FrontendURL)
	messageHandler := NewMessageHandler(svc.Messages)
	tagHandler := NewTagHandler(svc.Tags)
	templateHandler := NewTemplateHandler(svc.Templates)
	analyticsHandler := NewAnalyticsHandler(svc.Analytics)
	authHandler := NewAuthHandler(svc.Auth, AuthConfig{
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.SecureCookies,
	})

	requireAuth := auth.RequireAuth(svc.Sessions, cfg.SessionSecret)
	authed := func(fn http.HandlerFunc) http.Handler {
		return requireAuth(fn)
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return requireAuth(auth.RequireAdmin(fn))
	}
	intake := http.Handler(http.HandlerFunc(messageHandler.Submit))
	if cfg.ContactRateLimit > 0 {
		intake = NewRateLimiter(cfg.ContactRateLimit, WithTrustedProxies(cfg.TrustedProxies)).Middleware(intake)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)

	// 認証
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/auth/user", authed(authHandler.User))
	mux.Handle("POST /api/auth/verify-admin", authed(authHandler.VerifyAdmin))
	mux.Handle("GET /api/auth/admin-status", authed(authHandler.AdminStatus))

	// 公開エンドポイント
	mux.Handle("POST /api/messages", intake)
	mux.HandleFunc("POST /api/analytics/pageview", analyticsHandler.RecordPageView)

	// メッセージ（管理者のみ）
	mux.Handle("GET /api/messages", admin(messageHandler.List))
	mux.Handle("GET /api/messages/tags", admin(messageHandler.TagMap))
	mux.Handle("PATCH /api/messages/{id}/read", admin(messageHandler.MarkRead))
	mux.Handle("DELETE /api/messages/{id}", admin(messageHandler.Delete))
	mux.Handle("GET /api/analytics/stats", admin(analyticsHandler.Stats))

	// メッセージのタグ付け・CSV（ログインのみ）
	mux.Handle("GET /api/messages/export/csv", authed(messageHandler.ExportCSV))
	mux.Handle("GET /api/messages/{id}/tags", authed(messageHandler.Tags))
	mux.Handle("POST /api/messages/{id}/tags", authed(messageHandler.AddTag))
	mux.Handle("DELETE /api/messages/{id}/tags/{tagId}", authed(messageHandler.RemoveTag))

	// タグ
	mux.Handle("GET /api/tags", authed(tagHandler.List))
	mux.Handle("POST /api/tags", authed(tagHandler.Create))
	mux.Handle("DELETE /api/tags/{id}", authed(tagHandler.Delete))

	// テンプレート
	mux.Handle("GET /api/templates", authed(templateHandler.List))
	mux.Handle("GET /api/templates/{id}", authed(templateHandler.Get))
	mux.Handle("POST /api/templates", authed(templateHandler.Create))
	mux.Handle("PATCH /api/templates/{id}", authed(templateHandler.Update))
	mux.Handle("DELETE /api/templates/{id}", authed(templateHandler.Delete))

	return RequestLogger(SecurityHeaders(h.CORS(mux)))
}
