package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docmeta/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; behavior lives in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, analyticsSvc service.AnalyticsService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	docs := api.Group("/documents")
	docs.Post("/upload", UploadDocument(docSvc))
	docs.Post("/analyze-upload", AnalyzeUpload(docSvc))
	docs.Get("/", ListDocuments(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Put("/:id", UpdateDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))
	docs.Get("/:id/download", DownloadDocument(docSvc))
	docs.Post("/:id/analyze", AnalyzeDocument(docSvc))
	docs.Post("/:id/suggest-tags", SuggestTags(docSvc))

	api.Delete("/ai/cache", ClearAICache(docSvc))

	stats := api.Group("/analytics")
	stats.Get("/stats", AnalyticsStats(analyticsSvc))
	stats.Get("/export", AnalyticsExport(analyticsSvc))
}
