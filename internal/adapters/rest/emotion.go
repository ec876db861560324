package rest

import (
	"errors"
	"image"
	_ "image/jpeg" // Register decoders for uploaded snapshots
	_ "image/png"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vibesense/vibesense/internal/core/domain"
)

// maxUploadBytes caps snapshot uploads. Webcam stills are well under this.
const maxUploadBytes = 10 << 20

// errCodeNoFaceDetected lets clients distinguish "no face" from other bad
// uploads and prompt the user to reframe instead of retrying.
const errCodeNoFaceDetected = "NO_FACE_DETECTED"

type detectResponse struct {
	SessionID string                 `json:"session_id"`
	Result    domain.InferenceResult `json:"result"`
}

// DetectFromImage handles POST /api/emotion/detect-from-image.
// It accepts a multipart upload under the "file" field, runs single-image
// inference and persists the outcome under the given or a fresh session id.
func (h *Handler) DetectFromImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not decode image")
		return
	}

	raster, err := rasterFromImage(img)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.inference.InferFromImage(r.Context(), raster)
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "emotion model unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !result.FaceFound {
		writeErrorWithCode(w, http.StatusBadRequest, "no face detected in image", errCodeNoFaceDetected)
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if h.repo != nil {
		session := domain.EmotionSession{
			SessionID:  sessionID,
			Emotion:    result.Emotion,
			Confidence: result.Confidence,
			CreatedAt:  time.Now().UTC(),
		}
		if err := h.repo.SaveEmotionSession(r.Context(), session); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, detectResponse{SessionID: sessionID, Result: result})
}

// SessionHistory handles GET /api/emotion/session/{id}
func (h *Handler) SessionHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}
	if h.repo == nil {
		writeError(w, http.StatusNotImplemented, "session storage not configured")
		return
	}

	history, err := h.repo.EmotionSessions(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"history":    history,
		"count":      len(history),
	})
}

// Emotions handles GET /api/emotion/emotions
func (h *Handler) Emotions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"emotions": domain.Emotions(),
		"model":    h.inference.ModelInfo(),
	})
}

// rasterFromImage flattens a decoded image into an interleaved RGB buffer.
func rasterFromImage(img image.Image) (domain.Raster, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, width*height*3)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			red, green, blue, _ := img.At(x, y).RGBA()
			pix[i] = uint8(red >> 8)
			pix[i+1] = uint8(green >> 8)
			pix[i+2] = uint8(blue >> 8)
			i += 3
		}
	}

	return domain.NewRaster(pix, width, height, 3)
}
