package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/secureqr/secureqr/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the secure QR
// scanning API.
//
// Routes:
//
//	GET  /                 → service metadata and endpoint map
//	POST /auth/signup      → authHandler.Signup
//	POST /auth/login       → authHandler.Login
//	GET  /auth/me          → authHandler.Me         (requires auth)
//	POST /scan             → scanHandler.ScanURL    (auth optional)
//	POST /scan/image       → scanHandler.ScanImage  (auth optional, multipart)
//	GET  /history          → historyHandler.List    (requires auth)
//	POST /history          → historyHandler.Add     (requires auth)
//	POST /history/add      → historyHandler.Add     (requires auth)
//	DELETE /history/{id}   → historyHandler.Delete  (requires auth)
//	DELETE /history        → historyHandler.Clear   (requires auth)
//
// JSON endpoints enforce Content-Type: application/json; the image endpoint
// accepts multipart/form-data. Scan endpoints resolve identity when a valid
// bearer token is present but never require one.
func NewRouter(
	authHandler *AuthHandler,
	scanHandler *ScanHandler,
	historyHandler *HistoryHandler,
	tokens middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "endpoint not found")
	})

	r.Get("/", index)

	r.Route("/auth", func(r chi.Router) {
		// Public endpoints
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.AllowContentType("application/json"))
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		// Protected group: requires valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens))
			r.Get("/me", authHandler.Me)
		})
	})

	r.Route("/scan", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(tokens))
		r.With(chiMiddleware.AllowContentType("application/json")).Post("/", scanHandler.ScanURL)
		r.Post("/image", scanHandler.ScanImage)
	})

	r.Route("/history", func(r chi.Router) {
		r.Use(middleware.Auth(tokens))
		r.Get("/", historyHandler.List)
		r.With(chiMiddleware.AllowContentType("application/json")).Post("/", historyHandler.Add)
		r.With(chiMiddleware.AllowContentType("application/json")).Post("/add", historyHandler.Add)
		r.Delete("/{id}", historyHandler.Delete)
		r.Delete("/", historyHandler.Clear)
	})

	return r
}

// index serves the API self-description at the root path.
func index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Secure QR Code Scanning API",
		"version": "1.0.0",
		"endpoints": map[string]any{
			"auth": map[string]string{
				"signup":  "POST /auth/signup",
				"login":   "POST /auth/login",
				"profile": "GET /auth/me (requires auth)",
			},
			"scan": map[string]string{
				"scan_url":   "POST /scan",
				"scan_image": "POST /scan/image (multipart/form-data)",
			},
			"history": map[string]string{
				"get_history":         "GET /history (requires auth)",
				"add_history":         "POST /history or POST /history/add (requires auth)",
				"delete_history_item": "DELETE /history/{id} (requires auth)",
				"clear_all_history":   "DELETE /history (requires auth)",
			},
		},
	})
}
