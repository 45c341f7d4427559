// Package app contains the application setup for the storefront service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Nerzal/gocloak/v13"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/soukly/storefront/internal/cart"
	"github.com/soukly/storefront/internal/catalog"
	"github.com/soukly/storefront/internal/config"
	"github.com/soukly/storefront/internal/profile"
	"github.com/soukly/storefront/internal/session"
	"github.com/soukly/storefront/internal/transport/rest"
	"github.com/soukly/storefront/pkg/auth"
	"github.com/soukly/storefront/pkg/server"
)

type Dependencies struct {
	CatalogService *catalog.Service
	ProfileService *profile.Service
	SessionService *session.Service
	CartManager    *cart.Manager
	Verifier       auth.Verifier
	Logger         *slog.Logger
}

func SetupDependencies(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	catalogService := catalog.NewService(catalog.NewPgStore(dbPool))
	profileService := profile.NewService(profile.NewPgStore(dbPool))

	idp := gocloak.NewClient(cfg.IdP.BaseURL)
	sessionService := session.NewService(idp, profileService, cfg.IdP, cfg.Breaker, logger)

	cartManager := cart.NewManager(cart.NewPgGateway(dbPool), logger)

	verifier, err := auth.NewJWTVerifier(ctx, cfg.IdP)
	if err != nil {
		return nil, fmt.Errorf("failed to create token verifier: %w", err)
	}

	return &Dependencies{
		CatalogService: catalogService,
		ProfileService: profileService,
		SessionService: sessionService,
		CartManager:    cartManager,
		Verifier:       verifier,
		Logger:         logger,
	}, nil
}

// SetupHttpHandler initializes the HTTP routes for the storefront application.
// Used by E2E tests to set up the handler without binding a listener.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the storefront application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	authMw := auth.Middleware(deps.Verifier)

	rest.NewCatalogHandler(deps.CatalogService, deps.Logger).RegisterRoutes(mux)
	rest.NewCartHandler(deps.CartManager, deps.Logger).RegisterRoutes(mux, authMw)
	rest.NewAuthHandler(deps.SessionService, deps.Logger).RegisterRoutes(mux, authMw)
	rest.NewProfileHandler(deps.ProfileService, deps.Logger).RegisterRoutes(mux, authMw)
}

// SetupHttpServer creates and configures an HTTP server for the storefront application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
