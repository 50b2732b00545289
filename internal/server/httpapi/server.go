// Package httpapi exposes the REST surface of PhotoVault: collection and
// photo endpoints, the admin session gate, and the on-demand sync trigger.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/photovault/internal/logging"
	"github.com/dmitrijs2005/photovault/internal/server/services"
)

type Server struct {
	address     string
	logger      logging.Logger
	photos      *services.PhotoService
	collections *services.CollectionService
	sync        *services.SyncService

	secret        []byte
	adminPassword string
	sessionTTL    time.Duration
}

func NewServer(address string, l logging.Logger, ps *services.PhotoService, cs *services.CollectionService,
	ss *services.SyncService, secretKey, adminPassword string, sessionTTL time.Duration) *Server {
	return &Server{
		address:       address,
		logger:        l.With("module", "http_server"),
		photos:        ps,
		collections:   cs,
		sync:          ss,
		secret:        []byte(secretKey),
		adminPassword: adminPassword,
		sessionTTL:    sessionTTL,
	}
}

// Router assembles the chi routing tree. Mutating routes sit behind the
// admin session guard; reads are public.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/status", s.handleAuthStatus)

		r.Get("/collections", s.handleListCollections)
		r.Get("/collections/{key}/photos", s.handleCollectionPhotos)
		r.Get("/photos", s.handleListPhotos)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Post("/collections", s.handleCreateCollection)
			r.Delete("/collections/{key}", s.handleDeleteCollection)

			r.Post("/photos", s.handleUploadPhotos)
			r.Put("/photos/{id}", s.handleUpdatePhoto)
			r.Put("/photos/{id}/move", s.handleMovePhoto)
			r.Delete("/photos/{id}", s.handleDeletePhoto)
			r.Post("/photos/bulk-delete", s.handleBulkDelete)

			r.Post("/sync", s.handleSync)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
