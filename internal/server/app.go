// Package server initializes and runs the MiniDrive server: it opens the
// database, applies migrations, connects to object storage, and serves the
// HTTP API and the gRPC health probe until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/logging"
	"github.com/dmitrijs2005/minidrive/internal/server/api"
	"github.com/dmitrijs2005/minidrive/internal/server/auth"
	"github.com/dmitrijs2005/minidrive/internal/server/config"
	"github.com/dmitrijs2005/minidrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/minidrive/internal/server/services"
	"github.com/dmitrijs2005/minidrive/internal/server/storage"
	"github.com/labstack/echo/v4"

	gs "github.com/dmitrijs2005/minidrive/internal/server/grpc"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *echo.Echo
}

// NewApp wires the server from configuration. Migrations run here, so a
// returned App has a ready schema.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	logger.Info(ctx, "database migrations complete")

	gw, err := storage.NewS3Gateway(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	// The bucket may be provisioned out of band, so a failure here is not fatal.
	if err := gw.EnsureBucket(ctx); err != nil {
		logger.Warn(ctx, "could not ensure bucket", "bucket", c.S3Bucket, "error", err)
	}

	tokens := auth.NewTokenManager([]byte(c.SecretKey), c.AccessTokenValidityDuration)

	us := services.NewUserService(db, rm, tokens, c)
	fs := services.NewFileService(db, rm, gw, c, logger)
	ss := services.NewShareService(db, rm, fs, gw, c, logger)

	h := api.NewHandler(us, fs, ss, db, logger.With("module", "api"))
	e := api.SetupRouter(h, tokens, c, logger.With("module", "http"))

	return &App{config: c, logger: logger, db: db, http: e}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		sig := <-sigs
		app.logger.Info(context.Background(), "shutting down", "signal", sig.String())
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr, "base_url", app.config.BaseURL)

	if err := app.http.Start(app.config.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCHealthAddr, app.logger, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives, or a listener fails,
// then drains in-flight HTTP requests and closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCHealthAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.http.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "server forced to shutdown", "error", err)
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}

	app.logger.Info(shutdownCtx, "server exited cleanly")
}
