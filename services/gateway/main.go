package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/voyago/travelbook/pkg/config"
	"github.com/voyago/travelbook/pkg/logger"
	mw "github.com/voyago/travelbook/pkg/middleware"
	"github.com/voyago/travelbook/pkg/revoke"
	"github.com/voyago/travelbook/pkg/token"
	"github.com/voyago/travelbook/services/gateway/internal/authz"
	"github.com/voyago/travelbook/services/gateway/internal/handlers"
	"github.com/voyago/travelbook/services/gateway/internal/proxy"
)

// route binds a path prefix to a downstream service and its default
// required-role policy. nil roles means any authenticated caller.
type route struct {
	name   string
	prefix string
	target string
	roles  []token.Role
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

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
	if cfg.Auth.RevocationStore != "redis" {
		logger.Warn("In-memory revocation store: logouts performed by the identity service are not visible here; use REVOCATION_STORE=redis outside single-process development")
	}

	filter := authz.New(codec, revocations)
	identityProxy := proxy.NewServiceProxy(cfg.Gateway.IdentityURL)

	routes := []route{
		{name: "flights", prefix: "/api/flights", target: cfg.Gateway.FlightURL},
		{name: "hotels", prefix: "/api/hotels", target: cfg.Gateway.HotelURL},
		{name: "packages", prefix: "/api/packages", target: cfg.Gateway.PackageURL,
			roles: []token.Role{token.RoleTravelAgent, token.RoleAdmin}},
		{name: "bookings", prefix: "/api/bookings", target: cfg.Gateway.BookingURL,
			roles: []token.Role{token.RoleTraveler, token.RoleTravelAgent, token.RoleAdmin}},
		{name: "payments", prefix: "/api/payments", target: cfg.Gateway.PaymentURL,
			roles: []token.Role{token.RoleTraveler, token.RoleAdmin}},
		{name: "reviews", prefix: "/api/reviews", target: cfg.Gateway.ReviewURL},
		{name: "tickets", prefix: "/api/tickets", target: cfg.Gateway.TicketURL,
			roles: []token.Role{token.RoleTraveler, token.RoleAdmin}},
	}
	applyPolicyOverrides(routes, cfg.Gateway.RouteRoles)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("gateway"))
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)

	// Identity routes. Login, registration, and the forgot/reset pair are
	// public and bypass the filter; change-password and logout require a
	// valid token but no particular role.
	r.Route("/api/auth", func(r chi.Router) {
		fwd := handlers.Forward(identityProxy)
		r.Post("/register", fwd)
		r.Post("/login", fwd)
		r.Post("/forgot-password", fwd)
		r.Post("/reset-password", fwd)

		r.Group(func(r chi.Router) {
			r.Use(filter.Require())
			r.Post("/change-password", fwd)
			r.Post("/logout", fwd)
		})
	})

	// Domain routes, each behind its role policy.
	for _, rt := range routes {
		fwd := handlers.Forward(proxy.NewServiceProxy(rt.target))
		r.Route(rt.prefix, func(r chi.Router) {
			r.Use(filter.Require(rt.roles...))
			r.HandleFunc("/*", fwd)
			r.HandleFunc("/", fwd)
		})
	}

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

		logger.Info("Shutting down gateway...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Gateway shutdown error", "error", err)
		}
	}()

	logger.Info("Starting gateway", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Gateway server error", "error", err)
		os.Exit(1)
	}
}

// applyPolicyOverrides replaces route policies with operator-supplied
// ones. An invalid role name in an override refuses to boot: a mistyped
// policy must not silently widen access.
func applyPolicyOverrides(routes []route, overrides map[string]string) {
	for i := range routes {
		csv, ok := overrides[routes[i].name]
		if !ok {
			continue
		}
		if csv == "" {
			routes[i].roles = nil
			continue
		}
		roles, err := token.ParseRoleList(csv)
		if err != nil {
			logger.Error("Invalid route policy", "route", routes[i].name, "roles", csv, "error", err)
			os.Exit(1)
		}
		routes[i].roles = roles
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
