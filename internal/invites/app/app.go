package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/invites/internal/invites/http"
	"github.com/aussiebroadwan/invites/internal/invites/ledger"
	"github.com/aussiebroadwan/invites/internal/invites/mail"
	"github.com/aussiebroadwan/invites/internal/invites/service"
	"github.com/aussiebroadwan/invites/internal/invites/store"
	"github.com/aussiebroadwan/invites/internal/invites/store/drivers/postgres"
	"github.com/aussiebroadwan/invites/internal/invites/store/drivers/sqlite"
	"github.com/aussiebroadwan/invites/pkg/httpx"
	"github.com/aussiebroadwan/invites/pkg/jwtx"
	"github.com/aussiebroadwan/invites/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	initialKeyFetchTimeout = 10 * time.Second
)

// Application encapsulates the invites service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keys       *jwtx.KeySet
	remoteKeys *jwtx.RemoteKeySet
	verifier   jwtx.Verifier
	mailer     mail.Mailer

	// Services
	inviteService       *service.InviteService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router

	// cancels background loops (JWKS refresh)
	stop context.CancelFunc
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "invites-service",
			Version: BuildVersion,
			Env:     cfg.Server.Env,
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initKeys(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.stop = cancel

	go app.remoteKeys.Run(ctx, app.cfg.Auth.JWKSRefreshInterval)
	app.housekeepingService.Start()

	app.logger.Info("invites service starting", "port", app.cfg.Server.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down invites service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.Server.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.stop != nil {
		app.stop()
	}
	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("invites service stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.Database.Driver {
	case DriverPostgres:
		db, err = postgres.NewStore(context.Background(), postgres.Config{
			URL:      app.cfg.Database.URL,
			MaxConns: app.cfg.Database.MaxConns,
		})
	default:
		db, err = sqlite.NewStore(sqlite.DSN(app.cfg.Database.File))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.Database.Driver)
	return nil
}

// initKeys builds the verifier over the auth service's published keys.
// A failed first fetch is not fatal: /readyz reports it and the refresh
// loop keeps trying.
func (app *Application) initKeys() error {
	app.keys = jwtx.NewKeySet()
	app.remoteKeys = jwtx.NewRemoteKeySet(app.cfg.Auth.JWKSURL, app.keys)

	ctx, cancel := context.WithTimeout(context.Background(), initialKeyFetchTimeout)
	defer cancel()
	if err := app.remoteKeys.Refresh(ctx); err != nil {
		app.logger.Warn("initial JWKS fetch failed", "url", app.cfg.Auth.JWKSURL, "error", err)
	}

	verifier, err := jwtx.NewVerifier(app.cfg.Auth.Algorithm, app.keys, jwtx.VerifyOptions{
		Issuer:   app.cfg.Auth.Issuer,
		Audience: app.cfg.Auth.audiences(),
		Leeway:   30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}
	app.verifier = verifier
	return nil
}

// initMailer wires SES behind a circuit breaker, or leaves mail disabled.
func (app *Application) initMailer() error {
	if !app.cfg.Mail.Enabled {
		app.logger.Info("mail delivery disabled")
		return nil
	}

	ses, err := mail.NewSESMailer(app.cfg.Mail.AWSRegion, app.cfg.Mail.From)
	if err != nil {
		return fmt.Errorf("failed to initialize SES mailer: %w", err)
	}

	app.mailer = mail.NewBreakerMailer(ses, mail.BreakerSettings{
		ConsecutiveFailures: app.cfg.Mail.BreakerFailures,
		OpenTimeout:         app.cfg.Mail.BreakerTimeout,
	})
	app.logger.Info("mail delivery enabled", "region", app.cfg.Mail.AWSRegion, "from", app.cfg.Mail.From)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	led := ledger.New(app.db,
		ledger.WithCodeExpiration(app.cfg.Invites.CodeExpirationHours),
		ledger.WithEmailExpiration(app.cfg.Invites.EmailExpirationHours),
	)

	app.inviteService = &service.InviteService{
		Ledger:        led,
		MaxActive:     app.cfg.Invites.MaxActive,
		Mailer:        app.mailer,
		InviteBaseURL: app.cfg.Mail.InviteBaseURL,
	}

	if app.cfg.Invites.IssueRatePerHour > 0 {
		burst := app.cfg.Invites.IssueBurst
		if burst <= 0 {
			burst = 1
		}
		app.inviteService.IssueLimiter = httpx.NewKeyedLimiter(httpx.RateLimitConfig{
			RequestsPerWindow: app.cfg.Invites.IssueRatePerHour,
			Window:            time.Hour,
			Burst:             burst,
		})
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.inviteService,
		app.logger,
		app.cfg.Invites.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.InviteService = app.inviteService
	router.Limits = app.cfg.RateLimit
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
