package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/manatly/manat/internal/config"
	"github.com/manatly/manat/internal/database"
	"github.com/manatly/manat/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, storage, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	store, err := newSnapshotStore(cfg)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Build dependencies (services, handlers...)
	deps := BuildDependencies(store, cfg)

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv}, nil
}

// newSnapshotStore selects the persistence backend from configuration.
func newSnapshotStore(cfg config.Application) (snapshot.Store, error) {
	switch cfg.Storage.Backend {
	case "file":
		return snapshot.NewFileStore(cfg.Storage.Dir)
	case "postgres":
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		// db is closed on process exit together with the server.
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, err
		}
		return snapshot.NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}

// Run starts the HTTP server and blocks.
func (a *Application) Run() error {
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}
