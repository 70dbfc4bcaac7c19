package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/simplereimbursement/membership/internal/membership/billing"
	httpapi "github.com/simplereimbursement/membership/internal/membership/http"
	"github.com/simplereimbursement/membership/internal/membership/identity"
	"github.com/simplereimbursement/membership/internal/membership/mail"
	"github.com/simplereimbursement/membership/internal/membership/service"
	"github.com/simplereimbursement/membership/internal/membership/store"
	"github.com/simplereimbursement/membership/internal/membership/store/drivers/sqlite"
	"github.com/simplereimbursement/membership/pkg/jwtx"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the membership service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	keypair *jwtx.Keypair
	billing billing.Provider
	mailer  mail.Sender

	// Services
	organizationService *service.OrganizationService
	sessionService      *service.SessionService
	licenseService      *service.LicenseService
	inviteService       *service.InviteService
	userService         *service.UserService
	webhookService      *service.WebhookService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "membership-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initSessionKeys(); err != nil {
		return nil, err
	}
	if err := app.initProviders(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("membership service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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
	app.logger.Info("shutting down membership service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("membership service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initSessionKeys loads the session signing key, or generates an ephemeral
// one. Ephemeral keys invalidate all sessions on restart.
func (app *Application) initSessionKeys() error {
	if app.cfg.SessionKeyFile == "" {
		keypair, err := jwtx.GenerateKeypair("session-1", app.cfg.Issuer)
		if err != nil {
			return fmt.Errorf("failed to generate session keypair: %w", err)
		}
		app.keypair = keypair
		app.logger.Warn("using ephemeral session keys; sessions will not survive restarts")
		return nil
	}

	pemKey, err := os.ReadFile(app.cfg.SessionKeyFile)
	if err != nil {
		return fmt.Errorf("failed to read session key file: %w", err)
	}
	keypair, err := jwtx.LoadKeypairPEM("session-1", app.cfg.Issuer, pemKey)
	if err != nil {
		return fmt.Errorf("failed to load session keypair: %w", err)
	}
	app.keypair = keypair
	return nil
}

// initProviders wires the billing and mail backends, falling back to noop
// implementations when unconfigured.
func (app *Application) initProviders() error {
	if app.cfg.BillingAPIKey != "" {
		app.billing = billing.NewStripeProvider(
			app.cfg.BillingAPIKey,
			app.cfg.BillingWebhookSecret,
			app.cfg.BillingAdminPriceID,
			app.cfg.BillingUserPriceID,
		)
	} else {
		app.billing = billing.Noop{}
		app.logger.Warn("no billing provider configured; subscriptions are not invoiced")
	}

	if app.cfg.SMTPHost != "" {
		sender, err := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			Username: app.cfg.SMTPUsername,
			Password: app.cfg.SMTPPassword,
			From:     app.cfg.SMTPFrom,
			FromName: app.cfg.SMTPFromName,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize smtp sender: %w", err)
		}
		app.mailer = sender
	} else {
		app.mailer = mail.Noop{}
		app.logger.Warn("no smtp host configured; invitation emails are dropped")
	}

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	idp := identity.NewLocal(app.db)

	app.licenseService = &service.LicenseService{
		Store:   app.db,
		Billing: app.billing,
	}
	app.organizationService = &service.OrganizationService{
		Store:    app.db,
		Billing:  app.billing,
		Identity: idp,
	}
	app.sessionService = &service.SessionService{
		Store:    app.db,
		Identity: idp,
		Signer:   app.keypair,
		Issuer:   app.cfg.Issuer,
		TTL:      app.cfg.SessionTTL,
	}
	app.inviteService = &service.InviteService{
		Store:    app.db,
		Licenses: app.licenseService,
		Identity: idp,
		Mailer:   app.mailer,
		AppURL:   app.cfg.AppURL,
		TTL:      app.cfg.InvitationTTL,
	}
	app.userService = &service.UserService{
		Store:    app.db,
		Licenses: app.licenseService,
	}
	app.webhookService = &service.WebhookService{
		Store:   app.db,
		Billing: app.billing,
	}
	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.licenseService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP builds the router and HTTP server
func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(app.keypair, BuildVersion, app.db, app.logger)
	app.router.OrganizationService = app.organizationService
	app.router.SessionService = app.sessionService
	app.router.InviteService = app.inviteService
	app.router.LicenseService = app.licenseService
	app.router.UserService = app.userService
	app.router.WebhookService = app.webhookService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
