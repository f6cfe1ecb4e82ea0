package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"go-triage-pipeline/internal/api/handler"
	"go-triage-pipeline/internal/config"
	"go-triage-pipeline/internal/logging"
	"go-triage-pipeline/internal/model"
	"go-triage-pipeline/internal/pipeline"
	"go-triage-pipeline/internal/store"
)

// Server bundles the HTTP server with the resources it owns
type Server struct {
	HTTP *http.Server
	db   *store.DB
}

// NewServer opens the export history and builds the HTTP server from cfg.
// The S3 client is created on the first object store request.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	db, err := store.Open(cfg.Store.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open export store: %w", err)
	}

	var (
		mu     sync.Mutex
		client pipeline.ObjectPutter
	)
	resolve := func(kind model.DestinationKind) (pipeline.Destination, error) {
		if kind != model.DestinationObjectStore {
			return pipeline.NewDestination(kind, cfg, nil)
		}
		if cfg.ObjectStore.Bucket == "" {
			return nil, fmt.Errorf("object store bucket is not configured")
		}

		mu.Lock()
		defer mu.Unlock()
		if client == nil {
			c, err := pipeline.NewS3Client(ctx, cfg.ObjectStore)
			if err != nil {
				return nil, err
			}
			client = c
		}
		return pipeline.NewDestination(kind, cfg, client)
	}

	h := handler.NewExportHandler(db, resolve, logging.Component(logger, "api"))
	r := NewRouter(h, logging.Component(logger, "http"))

	return &Server{
		HTTP: r.Server(cfg.Server.Addr, cfg.Server.ReadTimeoutDuration(), cfg.Server.WriteTimeoutDuration()),
		db:   db,
	}, nil
}

// Close releases the export history database
func (s *Server) Close() error {
	return s.db.Close()
}
