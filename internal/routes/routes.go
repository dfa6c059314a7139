package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/templui/campus-collector/internal/app"
	"github.com/templui/campus-collector/internal/handler"
	"github.com/templui/campus-collector/internal/middleware"
	"github.com/templui/campus-collector/internal/storage"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	upload := handler.NewUploadHandler(app.IngestService, app.Cfg.UploadMaxMemory, app.Cfg.UploadMaxBody)
	analyze := handler.NewAnalyzeHandler(app.Analyzer, app.Cfg.AnalyzeTimeout)

	mux := http.NewServeMux()

	// Uploaded photos (local storage only; S3 serves its own URLs)
	if local, ok := app.Storage.(*storage.LocalStorage); ok {
		files := http.StripPrefix(app.Cfg.UploadURLPrefix+"/", http.FileServer(http.Dir(local.Root())))
		mux.Handle("GET "+app.Cfg.UploadURLPrefix+"/", noDirListing(files))
	}

	mux.HandleFunc("GET /healthz", handler.Health)

	// API
	mux.HandleFunc("POST /api/upload", upload.Upload)

	// Analysis calls a paid upstream model (rate limited per IP)
	rateLimiter := middleware.RateLimit(app.Cfg.AnalyzeRateLimit, time.Minute, app.TrustedProxies)
	mux.HandleFunc("POST /api/analyze-photo", rateLimiter(analyze.Analyze))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.WithLanguage,
	)

	return handler
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
