package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vibesense/vibesense/internal/core/domain"
	"github.com/vibesense/vibesense/internal/worker"
)

const (
	defaultRecommendLimit = 10
	maxRecommendLimit     = 50

	defaultPlaylistMinutes = 30
	minPlaylistMinutes     = 10
	maxPlaylistMinutes     = 180
)

type recommendRequest struct {
	Emotion   string `json:"emotion"`
	SessionID string `json:"session_id"`
	Limit     int    `json:"limit"`
}

// Recommend handles POST /api/music/recommend
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Emotion == "" {
		writeError(w, http.StatusBadRequest, "emotion is required")
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultRecommendLimit
	}
	if req.Limit < 1 || req.Limit > maxRecommendLimit {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 50")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	recs, err := h.recommender.Recommend(r.Context(), req.SessionID, req.Emotion, req.Limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Enriched preview clips feed the background energy refresh.
	if h.pool != nil {
		for _, rec := range recs {
			if rec.Info != nil && rec.Info.PreviewURL != "" {
				h.pool.Submit(worker.Job{TrackID: rec.ID, PreviewURL: rec.Info.PreviewURL})
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"emotion":         req.Emotion,
		"session_id":      req.SessionID,
		"recommendations": recs,
		"count":           len(recs),
	})
}

type feedbackRequest struct {
	SessionID string `json:"session_id"`
	TrackID   string `json:"track_id"`
	Feedback  string `json:"feedback"`
}

// Feedback handles POST /api/music/feedback
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" || req.TrackID == "" {
		writeError(w, http.StatusBadRequest, "session_id and track_id are required")
		return
	}
	kind := domain.FeedbackKind(req.Feedback)
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "feedback must be like, dislike or neutral")
		return
	}

	updated, err := h.recommender.SubmitFeedback(r.Context(), req.SessionID, req.TrackID, kind)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no recommendation found for this session and track")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Search handles GET /api/music/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if h.metadata == nil {
		writeError(w, http.StatusNotImplemented, "track metadata provider not configured")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	limit := defaultRecommendLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxRecommendLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = parsed
	}

	results, err := h.metadata.Search(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

// GeneratePlaylist handles GET /api/music/playlist/generate
func (h *Handler) GeneratePlaylist(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("emotions")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "emotions parameter is required")
		return
	}
	emotions := []string{}
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			emotions = append(emotions, trimmed)
		}
	}
	if len(emotions) == 0 {
		writeError(w, http.StatusBadRequest, "emotions parameter is required")
		return
	}

	minutes := defaultPlaylistMinutes
	if rawMinutes := r.URL.Query().Get("duration"); rawMinutes != "" {
		parsed, err := strconv.Atoi(rawMinutes)
		if err != nil || parsed < minPlaylistMinutes || parsed > maxPlaylistMinutes {
			writeError(w, http.StatusBadRequest, "duration must be between 10 and 180 minutes")
			return
		}
		minutes = parsed
	}

	tracks, err := h.recommender.GeneratePlaylist(r.Context(), emotions, minutes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"emotions":         emotions,
		"duration_minutes": minutes,
		"tracks":           tracks,
		"count":            len(tracks),
	})
}

// EmotionStats handles GET /api/music/emotions/{emotion}/stats
func (h *Handler) EmotionStats(w http.ResponseWriter, r *http.Request) {
	emotion := r.PathValue("emotion")
	if emotion == "" {
		writeError(w, http.StatusBadRequest, "emotion is required")
		return
	}

	stats, err := h.recommender.Stats(r.Context(), emotion)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
