package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, handler *Handler, adminAPIKey string, allowedOrigins []string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(handler, adminAPIKey, allowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewRouter registers every route on a ServeMux wrapped in CORS middleware.
// Admin routes require a bearer token only when adminAPIKey is set.
func NewRouter(handler *Handler, adminAPIKey string, allowedOrigins []string) http.Handler {
	admin := func(h http.HandlerFunc) http.Handler {
		if adminAPIKey == "" {
			return h
		}
		return requireAuth(adminAPIKey, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Health)

	mux.HandleFunc("POST /api/v1/allocation", handler.Allocation)
	mux.HandleFunc("POST /api/v1/compare", handler.Compare)
	mux.HandleFunc("POST /api/v1/rebalance", handler.Rebalance)
	mux.HandleFunc("GET /api/v1/portfolio/{address}", handler.GetPortfolio)

	mux.Handle("POST /api/v1/plans/generate", admin(handler.GeneratePlan))
	mux.HandleFunc("GET /api/v1/plans/latest", handler.GetLatestPlan)
	mux.HandleFunc("GET /api/v1/plans/{id}", handler.GetPlan)
	mux.HandleFunc("GET /api/v1/plans", handler.ListPlans)

	mux.HandleFunc("POST /api/v1/quote", handler.CreateQuote)
	mux.Handle("POST /api/v1/shift", admin(handler.CreateShift))

	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})(mux)
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
