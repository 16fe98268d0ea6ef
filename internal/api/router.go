package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medrep-hub-backend/internal/handlers"
)

// RouterDependencies holds all the dependencies required by the router
// setup, primarily handlers.
type RouterDependencies struct {
	ChatHandlers     *handlers.ChatHandlers
	DocumentsHandler *handlers.DocumentsHandler
	AuditHandler     *handlers.AuditHandler
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer) // no handler may leak a panic as a raw response
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	// The browser only ever talks to these proxy routes; the upstream key
	// stays server-side.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "https://*.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// --- Session / Chat Routes ---
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", deps.ChatHandlers.HandleCreateSession)
			r.Delete("/{sessionID}", deps.ChatHandlers.HandleClearSession)
			r.Get("/{sessionID}/messages", deps.ChatHandlers.HandleGetHistory)
			r.Post("/{sessionID}/messages", deps.ChatHandlers.HandleSendMessage)
		})

		// --- Knowledge Base Proxy Routes ---
		r.Route("/knowledge-bases/{kbID}", func(r chi.Router) {
			r.Get("/documents", deps.DocumentsHandler.HandleListDocuments)
			r.Post("/documents", deps.DocumentsHandler.HandleUploadDocument)
			r.Delete("/documents", deps.DocumentsHandler.HandleDeleteDocuments)
			r.Post("/crawl", deps.DocumentsHandler.HandleCrawlWebsite)
		})

		// --- Audit Routes ---
		r.Route("/audit", func(r chi.Router) {
			r.Get("/", deps.AuditHandler.HandleListAudit)
			r.Get("/export", deps.AuditHandler.HandleExportAudit)
			r.Post("/sample", deps.AuditHandler.HandleLoadSampleData)
		})
	})

	return r
}
