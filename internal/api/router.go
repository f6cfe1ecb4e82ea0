package api

import (
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "go-triage-pipeline/docs"
	"go-triage-pipeline/internal/api/handler"
	"go-triage-pipeline/pkg/router"
)

// NewRouter registers the API routes on a fresh router
func NewRouter(h *handler.ExportHandler, logger *zap.Logger) *router.Router {
	r := router.New(logger)
	RegisterRoutes(r, h)
	return r
}

func RegisterRoutes(r *router.Router, h *handler.ExportHandler) {
	r.POST("/api/v1/exports", h.CreateExport)
	r.GET("/api/v1/exports", h.ListExports)
	r.GET("/api/v1/models", h.ListModels)
	// More specific routes first
	r.GET("/api/v1/exports/*/download", h.DownloadExport)
	r.GET("/api/v1/exports/*", h.GetExport)
	r.Handle("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
