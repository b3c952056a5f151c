package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SnoopySong/nexaweb/internal/config"
	"github.com/SnoopySong/nexaweb/internal/handler"
	"github.com/SnoopySong/nexaweb/internal/logging"
	"github.com/SnoopySong/nexaweb/internal/repository"
	"github.com/SnoopySong/nexaweb/internal/service"
	"github.com/SnoopySong/nexaweb/pkg/auth"
	"github.com/SnoopySong/nexaweb/pkg/supabase"
)

// openStore は DB_DRIVER に応じてストアを開く
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.DBDriver == config.DriverSQLite {
		s, err := repository.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return repository.NewPgStore(pool), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		logging.Fatal("failed to open store", "driver", cfg.DBDriver, "error", err)
	}
	defer store.Close()

	sessionService := service.NewSessionService(store.Sessions(), cfg.SessionTTL)
	if n, err := sessionService.PurgeExpired(ctx); err != nil {
		slog.Warn("purge expired sessions failed", "error", err)
	} else if n > 0 {
		slog.Info("expired sessions purged", "count", n)
	}

	// Supabase 未設定の場合、ログインは 503 を返す
	idp := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
		slog.Warn("SUPABASE_URL / SUPABASE_ANON_KEY not set, login disabled")
	}
	if cfg.AdminSecret == "" {
		slog.Warn("ADMIN_SECRET not set, admin promotion disabled")
	}

	router := handler.NewRouter(store, handler.Services{
		Messages:  service.NewMessageService(store, store),
		Tags:      service.NewTagService(store),
		Templates: service.NewTemplateService(store),
		Analytics: service.NewAnalyticsService(store),
		Auth:      service.NewAuthService(idp, store, sessionService, cfg.AdminSecret),
		Sessions:  sessionService,
	}, handler.RouterConfig{
		FrontendURL:      cfg.FrontendURL,
		SessionSecret:    auth.SessionSecretBytes(cfg.SessionSecret),
		SessionTTL:       cfg.SessionTTL,
		SecureCookies:    cfg.IsProduction(),
		ContactRateLimit: cfg.ContactRateLimit,
		TrustedProxies:   cfg.TrustedProxies,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "driver", cfg.DBDriver, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
