package app

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/datadash-io/datadash/internal/dash/http"
	"github.com/datadash-io/datadash/internal/dash/service"
	"github.com/datadash-io/datadash/internal/dash/store"
	"github.com/datadash-io/datadash/internal/dash/store/drivers/sqlite"
	"github.com/datadash-io/datadash/pkg/jwtx"
	"github.com/datadash-io/datadash/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the dashboard service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	sessionKey ed25519.PrivateKey

	authService         *service.AuthService
	accountService      *service.AccountService
	uploadService       *service.UploadService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "datadash",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initSessionKey(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	if err := app.seedAdmin(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// seedAdmin bootstraps the configured admin account on an empty store.
func (app *Application) seedAdmin() error {
	if app.cfg.AdminEmail == "" || app.cfg.AdminPassword == "" {
		return nil
	}

	bootstrap := &service.BootstrapService{Store: app.db}
	seeded, err := bootstrap.SeedAdmin(context.Background(), app.cfg.AdminEmail, app.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	if seeded {
		app.logger.Info("admin account seeded", "email", app.cfg.AdminEmail)
	}
	return nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("datadash starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down datadash...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("datadash stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
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

// initSessionKey loads the signing key from disk when configured, otherwise
// generates an ephemeral one. Ephemeral keys invalidate sessions on restart.
func (app *Application) initSessionKey() error {
	if app.cfg.SessionKey != "" {
		key, err := jwtx.LoadKey(app.cfg.SessionKey)
		if err != nil {
			return fmt.Errorf("failed to load session key: %w", err)
		}
		app.sessionKey = key
		app.logger.Info("session key loaded", "path", app.cfg.SessionKey)
		return nil
	}

	key, err := jwtx.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate session key: %w", err)
	}
	app.sessionKey = key
	app.logger.Info("ephemeral session key generated; sessions will not survive a restart")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() error {
	app.authService = &service.AuthService{
		Store:      app.db,
		Signer:     jwtx.NewSignerEdDSA(app.sessionKey),
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
	}

	app.accountService = &service.AccountService{Store: app.db}

	app.uploadService = &service.UploadService{
		Store: app.db,
		Dir:   app.cfg.UploadDir,
	}
	if err := app.uploadService.Init(); err != nil {
		return fmt.Errorf("failed to initialize upload directory: %w", err)
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.uploadService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	verifier := jwtx.NewVerifierEdDSA(
		app.sessionKey.Public().(ed25519.PublicKey),
		app.cfg.Issuer,
	)

	router := httpapi.NewRouter(verifier, BuildVersion, app.db, app.logger)
	router.AuthService = app.authService
	router.AccountService = app.accountService
	router.UploadService = app.uploadService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
