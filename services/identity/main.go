package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/voyago/travelbook/pkg/config"
	"github.com/voyago/travelbook/pkg/database"
	"github.com/voyago/travelbook/pkg/events"
	"github.com/voyago/travelbook/pkg/logger"
	mw "github.com/voyago/travelbook/pkg/middleware"
	"github.com/voyago/travelbook/pkg/revoke"
	"github.com/voyago/travelbook/pkg/token"
	"github.com/voyago/travelbook/services/identity/internal/handlers"
	"github.com/voyago/travelbook/services/identity/internal/mailer"
	"github.com/voyago/travelbook/services/identity/internal/repository"
	"github.com/voyago/travelbook/services/identity/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// The signing secret is decoded once here and shared read-only; a bad
	// secret refuses to boot rather than issue weak tokens.
	codec, err := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Error("Failed to initialize token codec", "error", err)
		os.Exit(1)
	}

	revocations, err := buildRevocationStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize revocation store", "error", err)
		os.Exit(1)
	}

	// Event publishing is best-effort; a dead NATS degrades to local-only
	// operation instead of taking the identity service down with it.
	var bus events.Publisher
	if natsBus, err := events.NewNATSEventBus(cfg.NATS.URL); err != nil {
		logger.Warn("Event bus unavailable, continuing without it", "error", err)
	} else {
		bus = natsBus
		defer natsBus.Close()
	}

	userRepo := repository.NewUserRepository(pool)
	identity := service.NewIdentityService(userRepo, codec, revocations, mailer.New(cfg.Email), bus)
	h := handlers.New(identity)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("identity"))
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(mw.Health)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.Post("/change-password", h.ChangePassword)
		r.Post("/logout", h.Logout)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down identity service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Identity service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting identity service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Identity service error", "error", err)
		os.Exit(1)
	}
}

func buildRevocationStore(ctx context.Context, cfg *config.Config) (revoke.Store, error) {
	if cfg.Auth.RevocationStore == "redis" {
		client, err := revoke.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		return revoke.NewRedis(client, cfg.Auth.TokenTTL), nil
	}
	return revoke.NewMemory(), nil
}
