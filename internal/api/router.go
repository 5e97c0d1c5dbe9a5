package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/niveshlabs/estate-advisor/internal/api/handlers"
	"github.com/niveshlabs/estate-advisor/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	evaluateHandler *handlers.EvaluateHandler,
	marketHandler *handlers.MarketHandler,
	datasetHandler *handlers.DatasetHandler,
	liveHandler *handlers.LiveHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Evaluation
	api.HandleFunc("/evaluate", evaluateHandler.Evaluate).Methods("POST")

	// Market statistics
	api.HandleFunc("/market/summary", marketHandler.Summary).Methods("GET")
	api.HandleFunc("/market/similar", marketHandler.Similar).Methods("GET")

	// Dataset management
	api.HandleFunc("/dataset/reload", datasetHandler.Reload).Methods("POST")

	// Live snapshot updates (websocket)
	api.HandleFunc("/live", liveHandler.Serve).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "estate-advisor-api",
	})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
