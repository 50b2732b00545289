// Package server initializes and runs the gallery application server.
// It opens the database, prepares the schema, connects the object store,
// runs a startup reconciliation pass, and serves the HTTP API until the
// process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/photovault/internal/logging"
	"github.com/dmitrijs2005/photovault/internal/server/config"
	"github.com/dmitrijs2005/photovault/internal/server/httpapi"
	"github.com/dmitrijs2005/photovault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/photovault/internal/server/services"
	"github.com/dmitrijs2005/photovault/internal/server/storage"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	photoService      *services.PhotoService
	collectionService *services.CollectionService
	syncService       *services.SyncService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	remote, err := storage.NewS3Remote(ctx, storage.S3Config{
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	ps := services.NewPhotoService(db, rm, remote, logger)
	cs := services.NewCollectionService(db, rm, remote, logger)
	ss := services.NewSyncService(db, rm, remote, logger)

	return &App{
		config:            c,
		logger:            logger,
		db:                db,
		photoService:      ps,
		collectionService: cs,
		syncService:       ss,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger,
		app.photoService, app.collectionService, app.syncService,
		app.config.SecretKey, app.config.AdminPassword, app.config.SessionValidityDuration)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	// Reconcile the index with the remote store before serving. A failed
	// pass is logged and does not prevent startup: the index converges on
	// the next successful sync.
	if report, err := app.syncService.Sync(ctx); err != nil {
		app.logger.Error(ctx, "startup sync failed", "error", err)
	} else {
		app.logger.Info(ctx, "startup sync finished", "inserted", report.Inserted, "removed", report.Removed)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
