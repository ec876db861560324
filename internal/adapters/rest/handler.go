package rest

import (
	"net/http"

	"github.com/vibesense/vibesense/internal/core/ports"
	"github.com/vibesense/vibesense/internal/core/services"
	"github.com/vibesense/vibesense/internal/worker"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	inference   *services.InferenceEngine
	recommender *services.Recommender
	metadata    ports.MetadataProvider
	repo        ports.SessionRepository
	pool        *worker.Pool
	router      *http.ServeMux // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes. metadata and
// repo may be nil; the affected endpoints then answer 501. pool may be nil
// to skip background preview analysis.
func NewHandler(inference *services.InferenceEngine, recommender *services.Recommender, metadata ports.MetadataProvider, repo ports.SessionRepository, pool *worker.Pool) *Handler {
	h := &Handler{
		inference:   inference,
		recommender: recommender,
		metadata:    metadata,
		repo:        repo,
		pool:        pool,
		router:      http.NewServeMux(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Service Banner + Health Check
	h.router.HandleFunc("GET /{$}", h.Root)
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Emotion Inference
	h.router.HandleFunc("POST /api/emotion/detect-from-image", h.DetectFromImage)
	h.router.HandleFunc("GET /api/emotion/session/{id}", h.SessionHistory)
	h.router.HandleFunc("GET /api/emotion/emotions", h.Emotions)
	// Music Recommendation
	h.router.HandleFunc("POST /api/music/recommend", h.Recommend)
	h.router.HandleFunc("POST /api/music/feedback", h.Feedback)
	h.router.HandleFunc("GET /api/music/search", h.Search)
	h.router.HandleFunc("GET /api/music/playlist/generate", h.GeneratePlaylist)
	h.router.HandleFunc("GET /api/music/emotions/{emotion}/stats", h.EmotionStats)
}

// Root serves the service banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "VibeSense API",
		"status":  "running",
		"message": "Emotion-driven music recommendation service",
	})
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "VibeSense is live"})
}
